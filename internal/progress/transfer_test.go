package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name     string
		transfer Transfer
		want     int64
	}{
		{"half received quarter indexed", Transfer{Received: 50, Indexed: 25, Total: 100}, 38},
		{"zero total", Transfer{Received: 50, Indexed: 25, Total: 0}, 0},
		{"nothing yet", Transfer{Total: 10}, 0},
		{"all received", Transfer{Received: 10, Total: 10}, 50},
		{"complete", Transfer{Received: 7, Indexed: 7, Total: 7}, 100},
		{"rounds to nearest", Transfer{Received: 1, Total: 3}, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.transfer))
		})
	}
}

func TestTransfer_Done(t *testing.T) {
	assert.Equal(t, Transfer{Received: 8, Indexed: 8, Total: 8}, Transfer{Received: 3, Total: 8}.Done())
	assert.Equal(t, int64(100), Percent(Transfer{}.Done()))
}

func TestSidebandParser(t *testing.T) {
	var got []Transfer
	parser := NewSidebandParser(func(tr Transfer) { got = append(got, tr) })

	stream := "Enumerating objects: 200, done.\n" +
		"Counting objects:  25% (50/200)\r" +
		"Counting objects:  50% (100/200)\r" +
		"Counting objects: 100% (200/200), done.\n" +
		"Compressing objects:  50% (50/100)\r" +
		"Compressing objects: 100% (100/100), done.\n" +
		"Total 200 (delta 10), reused 0 (delta 0)\n"

	n, err := parser.Write([]byte(stream))
	assert.NoError(t, err)
	assert.Equal(t, len(stream), n)

	assert.Equal(t, []Transfer{
		{Received: 50, Total: 200},
		{Received: 100, Total: 200},
		{Received: 200, Total: 200},
		{Received: 200, Indexed: 100, Total: 200},
		{Received: 200, Indexed: 200, Total: 200},
	}, got)
	assert.Equal(t, int64(100), Percent(parser.Snapshot()))
}

func TestSidebandParser_SplitWrites(t *testing.T) {
	var got []Transfer
	parser := NewSidebandParser(func(tr Transfer) { got = append(got, tr) })

	_, _ = parser.Write([]byte("remote: Receiving obj"))
	assert.Empty(t, got, "partial line must wait for its terminator")

	_, _ = parser.Write([]byte("ects:  10% (1/10)\n"))
	assert.Equal(t, []Transfer{{Received: 1, Total: 10}}, got)
}

func TestSidebandParser_Monotonic(t *testing.T) {
	var got []Transfer
	parser := NewSidebandParser(func(tr Transfer) { got = append(got, tr) })

	_, _ = parser.Write([]byte("Receiving objects:  60% (6/10)\n"))
	_, _ = parser.Write([]byte("Receiving objects:  30% (3/10)\n"))
	_, _ = parser.Write([]byte("Resolving deltas:  50% (2/4)\n"))

	assert.Equal(t, []Transfer{
		{Received: 6, Total: 10},
		{Received: 6, Indexed: 5, Total: 10},
	}, got)
}

func TestSidebandParser_IgnoresNoise(t *testing.T) {
	calls := 0
	parser := NewSidebandParser(func(Transfer) { calls++ })

	_, _ = parser.Write([]byte("Cloning into 'repo'...\nwarning: redirecting\nCounting objects: 0% (0/0)\n"))
	assert.Zero(t, calls)
	assert.Equal(t, Transfer{}, parser.Snapshot())
}
