package rule_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/sharevault/pkg/rule"
)

type credentials struct {
	Username string `json:"username" rule:"required,min=3"`
	Password string `json:"password" rule:"required,min=6"`
	Email    string `json:"email"    rule:"omitempty,email"`
}

type upload struct {
	Name string `form:"name" rule:"required,filename"`
}

func TestEngineShared(t *testing.T) {
	require.NotNil(t, rule.Engine())
	assert.Same(t, rule.Engine(), rule.Engine())
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		in         credentials
		wantFields []string
	}{
		{"valid", credentials{Username: "alice", Password: "secret1"}, nil},
		{"valid with email", credentials{Username: "alice", Password: "secret1", Email: "a@example.com"}, nil},
		{"missing both", credentials{}, []string{"username", "password"}},
		{"short password", credentials{Username: "bob", Password: "123"}, []string{"password"}},
		{"bad email", credentials{Username: "bob", Password: "123456", Email: "nope"}, []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.ValidateStruct(tt.in)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			verrs := rule.Errors(err)
			require.Len(t, verrs, len(tt.wantFields))

			for _, f := range tt.wantFields {
				assert.Contains(t, verrs, f)
			}
		})
	}
}

func TestErrorsString(t *testing.T) {
	err := rule.ValidateStruct(credentials{Password: "x"})

	assert.Equal(t, "password: failed on rule min=6; username: failed on rule required", rule.Errors(err).String())
	assert.Nil(t, rule.Errors(assert.AnError))
}

func TestFilenameRule(t *testing.T) {
	assert.NoError(t, rule.ValidateStruct(upload{Name: "report.pdf"}))

	err := rule.ValidateStruct(upload{Name: "../etc/passwd"})
	assert.Equal(t, "failed on rule filename", rule.Errors(err)["name"])
}

func TestIsValidFileName(t *testing.T) {
	valid := []string{"a.txt", "名字 with spaces.md", strings.Repeat("x", rule.MaxFileNameLength)}
	invalid := []string{"", ".", "..", "dir/a.txt", `dir\a.txt`, "tab\tname", strings.Repeat("x", rule.MaxFileNameLength+1)}

	for _, name := range valid {
		assert.True(t, rule.IsValidFileName(name), "%q", name)
	}

	for _, name := range invalid {
		assert.False(t, rule.IsValidFileName(name), "%q", name)
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, rule.ValidateVar("team-a", "required,max=64"))
	assert.Error(t, rule.ValidateVar("", "required"))
}
