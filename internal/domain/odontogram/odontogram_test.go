package odontogram_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentflow/dentflow/internal/domain/odontogram"
)

func caries(recordedBy uuid.UUID) odontogram.Finding {
	lesionID := uuid.New()
	return odontogram.Finding{
		Surface:    odontogram.SurfaceOcclusal,
		LesionID:   &lesionID,
		State:      odontogram.FindingPresent,
		RecordedAt: time.Now(),
		RecordedBy: recordedBy,
	}
}

func TestNewForPatient(t *testing.T) {
	_, err := odontogram.NewForPatient(uuid.Nil)
	assert.ErrorIs(t, err, odontogram.ErrMissingPatientID)

	o, err := odontogram.NewForPatient(uuid.New())
	require.NoError(t, err)
	assert.Empty(t, o.Teeth)
}

func TestUpsertFinding(t *testing.T) {
	o, err := odontogram.NewForPatient(uuid.New())
	require.NoError(t, err)
	staff := uuid.New()

	require.NoError(t, o.UpsertFinding(36, caries(staff)))
	require.Len(t, o.Teeth[36].Findings, 1)

	// Same surface replaces, different surface appends.
	treated := caries(staff)
	treated.State = odontogram.FindingTreated
	require.NoError(t, o.UpsertFinding(36, treated))
	require.Len(t, o.Teeth[36].Findings, 1)
	assert.Equal(t, odontogram.FindingTreated, o.Teeth[36].Findings[0].State)

	mesial := caries(staff)
	mesial.Surface = odontogram.SurfaceMesial
	require.NoError(t, o.UpsertFinding(36, mesial))
	assert.Len(t, o.Teeth[36].Findings, 2)
}

func TestUpsertFinding_Validation(t *testing.T) {
	o, err := odontogram.NewForPatient(uuid.New())
	require.NoError(t, err)
	staff := uuid.New()

	assert.ErrorIs(t, o.UpsertFinding(99, caries(staff)), odontogram.ErrInvalidToothNumber)

	badSurface := caries(staff)
	badSurface.Surface = "front"
	assert.ErrorIs(t, o.UpsertFinding(11, badSurface), odontogram.ErrInvalidSurface)

	empty := caries(staff)
	empty.LesionID = nil
	assert.ErrorIs(t, o.UpsertFinding(11, empty), odontogram.ErrEmptyFinding)
}

func TestClearFinding(t *testing.T) {
	o, err := odontogram.NewForPatient(uuid.New())
	require.NoError(t, err)

	require.NoError(t, o.UpsertFinding(36, caries(uuid.New())))
	require.NoError(t, o.ClearFinding(36, odontogram.SurfaceOcclusal))
	assert.NotContains(t, o.Teeth, 36, "tooth with no findings is dropped from the chart")

	// Clearing an absent finding is a no-op.
	assert.NoError(t, o.ClearFinding(11, odontogram.SurfaceMesial))
}

func TestMarkToothMissing(t *testing.T) {
	o, err := odontogram.NewForPatient(uuid.New())
	require.NoError(t, err)

	require.NoError(t, o.MarkToothMissing(18, true))
	assert.True(t, o.Teeth[18].Missing)

	require.NoError(t, o.MarkToothMissing(18, false))
	assert.NotContains(t, o.Teeth, 18)
}

func TestValidFDITooth(t *testing.T) {
	for _, n := range []int{11, 18, 21, 36, 48, 51, 55, 85} {
		assert.True(t, odontogram.ValidFDITooth(n), "tooth %d", n)
	}
	for _, n := range []int{0, 9, 10, 19, 49, 56, 86, 90, 111} {
		assert.False(t, odontogram.ValidFDITooth(n), "tooth %d", n)
	}
}
