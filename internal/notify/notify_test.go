package notify

import (
	"errors"
	"fmt"
	"testing"

	"shelfsmart/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClassify(t *testing.T) {
	expired := fmt.Errorf("%w: %w", common.ErrSessionExpired, &common.APIError{StatusCode: 401})

	assert.Equal(t, KindAuth, Classify(expired, KindWrite))
	assert.Equal(t, KindAuth, Classify(common.ErrNotAuthenticated, KindRead))
	assert.Equal(t, KindValidation, Classify(common.NewValidationError("quantity", "too large"), KindWrite))
	assert.Equal(t, KindValidation, Classify(common.ErrRequestInFlight, KindWrite))
	assert.Equal(t, KindWrite, Classify(&common.APIError{StatusCode: 500}, KindWrite))
	assert.Equal(t, KindRead, Classify(errors.New("dial tcp: refused"), KindRead))
}

func TestFailure_UsesValidationMessage(t *testing.T) {
	rec := NewRecorder(0)

	kind := Failure(rec, common.NewValidationError("quantity", "must be between 1 and 10"), KindWrite, "")

	assert.Equal(t, KindValidation, kind)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "quantity: must be between 1 and 10", last.Message)
}

func TestFailure_AuthMessage(t *testing.T) {
	rec := NewRecorder(0)

	Failure(rec, common.ErrSessionExpired, KindRead, "Failed to load inventory")

	last, _ := rec.Last()
	assert.Equal(t, KindAuth, last.Kind)
	assert.Equal(t, "Session expired. Please log in again.", last.Message)
}

func TestRecorder_Limit(t *testing.T) {
	rec := NewRecorder(2)
	for i := 0; i < 3; i++ {
		rec.Notify(Notification{Message: fmt.Sprint(i)})
	}

	all := rec.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].Message)
	assert.Equal(t, "2", all[1].Message)
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(0), NewRecorder(0)
	m := Multi{a, nil, b, NewLogger(zap.NewNop())}

	Success(m, "Item added")

	assert.Len(t, a.All(), 1)
	assert.Len(t, b.All(), 1)
}
