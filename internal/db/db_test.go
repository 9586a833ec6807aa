package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitDDLUsesConfiguredVectorSize(t *testing.T) {
	assert.Contains(t, NewPGIndex(nil, 1024).initDDL(), "vector(1024)")
	assert.Contains(t, NewPGIndex(nil, 0).initDDL(), "vector(768)")
}

func TestWithSSLMode(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			"bare dsn",
			"postgres://user@localhost:5432/rag",
			"postgres://user@localhost:5432/rag?sslmode=disable",
		},
		{
			"dsn with parameters",
			"postgres://user@localhost:5432/rag?application_name=smartdocs",
			"postgres://user@localhost:5432/rag?application_name=smartdocs&sslmode=disable",
		},
		{
			"dsn already sets sslmode",
			"postgres://user@localhost:5432/rag?sslmode=require",
			"postgres://user@localhost:5432/rag?sslmode=require",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withSSLMode(tt.dsn))
		})
	}
}
