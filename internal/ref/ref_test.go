package ref

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type job struct {
	ID    uint
	Title string
}

func (j job) Key() uint { return j.ID }

var errNoRow = errors.New("no row")

// countingLoader serves a fixed set of jobs and counts invocations.
type countingLoader struct {
	jobs  map[uint]job
	calls int
}

func (l *countingLoader) load(ctx context.Context, id uint) (job, error) {
	l.calls++
	if err := ctx.Err(); err != nil {
		return job{}, err
	}
	j, ok := l.jobs[id]
	if !ok {
		return job{}, errNoRow
	}
	return j, nil
}

func TestFromIDStartsUnresolved(t *testing.T) {
	r := FromID[uint, job](7)
	assert.False(t, r.Resolved())
	assert.Equal(t, uint(7), r.ID())

	_, ok := r.Entity()
	assert.False(t, ok)
}

func TestResolveMemoizes(t *testing.T) {
	loader := &countingLoader{jobs: map[uint]job{42: {ID: 42, Title: "Backend Engineer"}}}

	r := FromID[uint, job](42)
	r, err := r.Resolve(context.Background(), loader.load)
	require.NoError(t, err)
	require.True(t, r.Resolved())

	got, ok := r.Entity()
	require.True(t, ok)
	assert.Equal(t, job{ID: 42, Title: "Backend Engineer"}, got)
	assert.Equal(t, uint(42), r.ID())

	// second resolve returns the cached entity without touching the loader
	r2, err := r.Resolve(context.Background(), loader.load)
	require.NoError(t, err)
	got2, _ := r2.Entity()
	assert.Equal(t, got, got2)
	assert.Equal(t, 1, loader.calls)
}

func TestFromEntityNeverLoads(t *testing.T) {
	loader := &countingLoader{jobs: map[uint]job{}}

	r := FromEntity[uint](job{ID: 9, Title: "Data Engineer"})
	assert.True(t, r.Resolved())
	assert.Equal(t, uint(9), r.ID())

	_, err := r.Resolve(context.Background(), loader.load)
	require.NoError(t, err)
	assert.Zero(t, loader.calls)
}

func TestResolveNotFoundKeepsIdentifierState(t *testing.T) {
	loader := &countingLoader{jobs: map[uint]job{}}

	r := FromID[uint, job](404)
	r2, err := r.Resolve(context.Background(), loader.load)
	assert.ErrorIs(t, err, errNoRow)

	// the returned ref is the receiver, untouched and retryable
	assert.False(t, r2.Resolved())
	assert.Equal(t, uint(404), r2.ID())

	loader.jobs[404] = job{ID: 404, Title: "Late Arrival"}
	r3, err := r2.Resolve(context.Background(), loader.load)
	require.NoError(t, err)
	assert.True(t, r3.Resolved())
	assert.Equal(t, 2, loader.calls)
}

func TestResolveCanceledContext(t *testing.T) {
	loader := &countingLoader{jobs: map[uint]job{1: {ID: 1}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := FromID[uint, job](1)
	r2, err := r.Resolve(ctx, loader.load)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, r2.Resolved())
}

func TestJSONRoundTripCarriesID(t *testing.T) {
	r := FromEntity[uint](job{ID: 13, Title: "SRE"})
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, "13", string(raw))

	var decoded Ref[uint, job]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.False(t, decoded.Resolved())
	assert.Equal(t, uint(13), decoded.ID())
}
