package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", &buf)

	l.Info("hidden")
	l.Warn("shown", "table", "users")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN]  datasnap: shown: table=users")
}

func TestNew_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New("loud", &buf)

	l.Debug("hidden")
	l.Named("store").Info("persisted")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "datasnap.store: persisted")
}
