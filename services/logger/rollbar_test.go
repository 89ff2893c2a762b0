package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/user"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", TestMode: true})

	usr := user.User{ID: "1", Name: "Admin User", Email: "admin@college.edu"}
	logger.Error("loading classes", errors.New("boom"), map[string]interface{}{"collection": "classes"}, usr)

	out := buf.String()
	assert.Contains(t, out, "ERROR: loading classes")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "collection:classes")
	assert.NotContains(t, out, "admin@college.edu")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), &core.Config{TestMode: true})
	err := errors.New("boom")

	args := logger.prepare("msg", []interface{}{user.Viewer{ID: "2", Role: user.RoleTeacher}, err, user.User{ID: "3"}})
	assert.Equal(t, []interface{}{"msg", err}, args)
}
