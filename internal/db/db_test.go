package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, "0001_init", migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS resumes")
	assert.Contains(t, migrations[0].SQL, "stripe_customer_id")

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alex@example.com", normalizeEmail("  Alex@Example.COM "))
	assert.Equal(t, "", normalizeEmail("   "))
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	require.NotNil(t, nullable("cus_1"))
	assert.Equal(t, "cus_1", *nullable("cus_1"))
}
