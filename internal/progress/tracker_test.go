package progress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTracker_Start(t *testing.T) {
	tracker := &DefaultTracker{}
	op := tracker.Start("test operation")

	require.NotNil(t, op)
	assert.Equal(t, "test operation", op.Name)
	assert.False(t, op.StartTime.IsZero())
	assert.Equal(t, StatusInProgress, op.Status)
	assert.Zero(t, op.Updates)
}

func TestDefaultTracker_Update(t *testing.T) {
	tracker := &DefaultTracker{}
	tracker.Start("test operation")

	tracker.Update(50, 100)
	tracker.Update(75, 100)

	assert.Equal(t, int64(75), tracker.CurrentOperation.LastCurrent)
	assert.Equal(t, int64(100), tracker.CurrentOperation.LastTotal)
	assert.Equal(t, 2, tracker.CurrentOperation.Updates)
	assert.Equal(t, []int64{50, 75}, tracker.History())
	assert.Equal(t, int64(75), tracker.CurrentOperation.Percent())
}

func TestDefaultTracker_Complete(t *testing.T) {
	tracker := &DefaultTracker{}
	tracker.Start("test operation")
	tracker.Update(100, 100)
	tracker.Complete()

	assert.Equal(t, StatusCompleted, tracker.CurrentOperation.Status)
}

func TestDefaultTracker_Error(t *testing.T) {
	tracker := &DefaultTracker{}
	tracker.Start("test operation")
	testErr := errors.New("test error")
	tracker.Error(testErr)

	assert.Equal(t, StatusFailed, tracker.CurrentOperation.Status)
	assert.Equal(t, testErr, tracker.CurrentOperation.Err)
}

func TestDefaultTracker_EdgeCases(t *testing.T) {
	tracker := &DefaultTracker{}

	tracker.Update(50, 100)
	tracker.Complete()
	tracker.Error(errors.New("test error"))

	assert.Nil(t, tracker.CurrentOperation)
	assert.Empty(t, tracker.History())
}

func TestDefaultTracker_MultipleOperations(t *testing.T) {
	tracker := &DefaultTracker{}

	op1 := tracker.Start("operation 1")
	tracker.Update(50, 100)
	tracker.Complete()

	op2 := tracker.Start("operation 2")
	assert.NotSame(t, op1, op2)
	assert.Empty(t, tracker.History(), "history resets on Start")

	tracker.Update(75, 100)
	assert.Equal(t, "operation 2", tracker.CurrentOperation.Name)
	assert.Equal(t, StatusCompleted, op1.Status)
}

func TestOperation_Percent(t *testing.T) {
	var nilOp *Operation
	assert.Zero(t, nilOp.Percent())
	assert.Zero(t, (&Operation{LastCurrent: 5}).Percent())
	assert.Equal(t, int64(40), (&Operation{LastCurrent: 2, LastTotal: 5}).Percent())
}

func TestDiscard(t *testing.T) {
	op := Discard.Start("noop")
	Discard.Update(1, 2)
	Discard.Complete()
	Discard.Error(errors.New("ignored"))

	assert.Equal(t, "noop", op.Name)
	assert.Equal(t, StatusInProgress, op.Status)
}
