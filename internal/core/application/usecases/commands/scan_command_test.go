package commands_test

import (
	"testing"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScanCommand(t *testing.T) {
	tests := []struct {
		name     string
		driverID string
		barcode  string
		want     string
		wantErr  error
	}{
		{name: "digits only", driverID: "d1", barcode: "10234", want: "#10234"},
		{name: "mixed barcode", driverID: "d1", barcode: " AB-10-234 ", want: "#10234"},
		{name: "no digits", driverID: "d1", barcode: "ABC", wantErr: errs.ErrValueIsInvalid},
		{name: "blank driver", driverID: " ", barcode: "1", wantErr: errs.ErrValueIsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := commands.NewScanCommand(tt.driverID, tt.barcode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.OrderName())
			assert.NoError(t, cmd.Validate())
		})
	}
}

func TestScanCommand_ZeroValueIsNotConstructed(t *testing.T) {
	var cmd commands.ScanCommand
	assert.ErrorIs(t, cmd.Validate(), commands.ErrScanCommandIsNotConstructed)
}
