package backfill

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestRequestDeriveType(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		want    JobType
		wantErr bool
	}{
		{"explicit games", Request{GameIDs: []string{"401547321"}}, JobTypeGame, false},
		{"games outrank season", Request{GameIDs: []string{"401547321"}, Season: 2025}, JobTypeGame, false},
		{"pending sweep", Request{Pending: true}, JobTypePending, false},
		{"season week", Request{Season: 2025, Week: intPtr(3)}, JobTypeWeek, false},
		{"whole season", Request{Season: 2025}, JobTypeSeason, false},
		{"empty request", Request{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.DeriveType()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSpecRoundTrip(t *testing.T) {
	s := &Service{}

	tests := []struct {
		name string
		job  *Job
		want JobSpec
	}{
		{
			"game job",
			&Job{JobType: JobTypeGame, GameIDs: []string{"a", "b"}},
			JobSpec{Type: JobTypeGame, GameIDs: []string{"a", "b"}},
		},
		{
			"week job",
			&Job{
				JobType: JobTypeWeek,
				Season:  sql.NullInt32{Int32: 2025, Valid: true},
				Week:    sql.NullInt32{Int32: 7, Valid: true},
			},
			JobSpec{Type: JobTypeWeek, Season: 2025, Week: 7},
		},
		{
			"season job",
			&Job{JobType: JobTypeSeason, Season: sql.NullInt32{Int32: 2024, Valid: true}},
			JobSpec{Type: JobTypeSeason, Season: 2024},
		},
		{
			"pending job",
			&Job{JobType: JobTypePending},
			JobSpec{Type: JobTypePending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := s.buildSpec(tt.job)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec)
		})
	}
}

func TestBuildSpecRejectsIncoherentJobs(t *testing.T) {
	s := &Service{}

	for _, job := range []*Job{
		{JobType: JobTypeGame},
		{JobType: JobTypeWeek, Season: sql.NullInt32{Int32: 2025, Valid: true}},
		{JobType: JobTypeSeason},
		{JobType: JobType("bogus")},
	} {
		_, err := s.buildSpec(job)
		assert.Error(t, err, "job type %s", job.JobType)
	}
}
