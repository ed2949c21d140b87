package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cfgErr := NewConfigurationError("must specify one or more actions")
	assert.True(t, IsConfigurationError(cfgErr))
	assert.False(t, IsExternalToolError(cfgErr))
	assert.True(t, IsConfigurationError(fmt.Errorf("add flow: %w", cfgErr)))

	toolErr := &ExternalToolError{
		Argv:   []string{"ovs-vsctl", "--timeout=2", "add-br", "br-int"},
		Stderr: "ovs-vsctl: unix:/var/run/openvswitch/db.sock: database connection failed\n",
		Err:    errors.New("exit status 1"),
	}
	assert.True(t, IsExternalToolError(toolErr))
	assert.False(t, IsConfigurationError(toolErr))
	assert.Equal(t,
		`command "ovs-vsctl --timeout=2 add-br br-int" failed: exit status 1: ovs-vsctl: unix:/var/run/openvswitch/db.sock: database connection failed`,
		toolErr.Error())
}

func TestExternalToolErrorUnwrapsTimeout(t *testing.T) {
	err := &ExternalToolError{Argv: []string{"ovs-ofctl", "dump-flows", "br-int"}, Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
