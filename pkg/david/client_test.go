package david

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyService fails its first `failures` calls, then succeeds.
type flakyService struct {
	failures int
	calls    int
	report   *TermClusterReport
}

func (s *flakyService) Submit(ids []int, listName string) (*TermClusterReport, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("service unavailable")
	}
	return s.report, nil
}

func TestClientRetriesThenSucceeds(t *testing.T) {

	want := &TermClusterReport{Clusters: []Cluster{{Score: 2.5}}}
	svc := &flakyService{failures: 2, report: want}

	client := NewClient(svc, 3, 0)
	report := client.Submit([]int{1, 2, 3}, "1to101")

	// Two failures plus the success: exactly three attempts.
	assert.Equal(t, 3, svc.calls)
	require.NotNil(t, report)
	assert.InDelta(t, 2.5, report.Clusters[0].Score, 1e-9)
}

func TestClientFirstAttemptSucceeds(t *testing.T) {

	svc := &flakyService{report: &TermClusterReport{}}

	client := NewClient(svc, 3, 0)
	report := client.Submit([]int{1}, "1to101")

	assert.Equal(t, 1, svc.calls)
	assert.NotNil(t, report)
}

func TestClientGivesUpAfterRetries(t *testing.T) {

	svc := &flakyService{failures: 100}

	client := NewClient(svc, 3, 0)
	report := client.Submit([]int{1}, "1to101")

	// The attempt budget is total attempts, not extra retries.
	assert.Equal(t, 3, svc.calls)
	assert.Nil(t, report)
}
