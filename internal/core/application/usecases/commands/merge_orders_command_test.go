package commands_test

import (
	"testing"

	"invoicing/internal/core/application/usecases/commands"
	"invoicing/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMergeOrdersCommand_ValidInput(t *testing.T) {
	idA := kernel.NewUUID()
	idB := kernel.NewUUID()

	cmd, err := commands.NewMergeOrdersCommand([]kernel.UUID{idA, idB})
	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{idA, idB}, cmd.SourceIDs())
}

func TestNewMergeOrdersCommand_PreservesInputOrder(t *testing.T) {
	ids := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()}

	cmd, err := commands.NewMergeOrdersCommand(ids)
	require.NoError(t, err)
	assert.Equal(t, ids, cmd.SourceIDs())
}

func TestNewMergeOrdersCommand_DropsDuplicatesKeepingFirstOccurrence(t *testing.T) {
	idA := kernel.NewUUID()
	idB := kernel.NewUUID()

	cmd, err := commands.NewMergeOrdersCommand([]kernel.UUID{idA, idA, idB, idA})
	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{idA, idB}, cmd.SourceIDs())
}

func TestNewMergeOrdersCommand_InsufficientSources(t *testing.T) {
	id := kernel.NewUUID()

	tests := map[string][]kernel.UUID{
		"nil":        nil,
		"empty":      {},
		"single":     {id},
		"duplicates": {id, id, id},
	}

	for name, ids := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := commands.NewMergeOrdersCommand(ids)
			require.ErrorIs(t, err, commands.ErrInsufficientSources)
		})
	}
}

func TestNewMergeOrdersCommand_InvalidSourceID(t *testing.T) {
	_, err := commands.NewMergeOrdersCommand([]kernel.UUID{kernel.NewUUID(), {}})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestMergeOrdersCommand_Validate_NotConstructed(t *testing.T) {
	cmd := commands.MergeOrdersCommand{}
	require.ErrorIs(t, cmd.Validate(), commands.ErrMergeOrdersCommandIsNotConstructed)
}
