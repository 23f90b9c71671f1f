package shared_test

import (
	"testing"

	"rihla/shared"
	"rihla/shared/constant"
	"rihla/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{
			name:     "zero total returns one page",
			total:    0,
			limit:    10,
			expected: 1,
		},
		{
			name:     "zero limit returns one page",
			total:    25,
			limit:    0,
			expected: 1,
		},
		{
			name:     "exact division",
			total:    20,
			limit:    10,
			expected: 2,
		},
		{
			name:     "remainder rounds up",
			total:    21,
			limit:    10,
			expected: 3,
		},
		{
			name:     "single page",
			total:    5,
			limit:    10,
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestBuildCacheKey(t *testing.T) {
	key := shared.BuildCacheKey("booking:get", "RHL-X", "amina@example.com")
	expected := "booking:get:RHL-X:amina@example.com"

	if key != expected {
		t.Errorf("expected %s, got %s", expected, key)
	}
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		Participants int    `db:"number_of_participants"`
		Requests     string `db:"special_requests"`
		Ignored      string
	}

	fields := shared.TransformFields(patch{
		Participants: 3,
		Ignored:      "no db tag",
	})

	if fields["number_of_participants"] != 3 {
		t.Errorf("expected number_of_participants to be 3, got %v", fields["number_of_participants"])
	}

	if _, ok := fields["special_requests"]; ok {
		t.Error("expected zero-valued field to be skipped")
	}

	if _, ok := fields[constant.FieldModifiedAt]; !ok {
		t.Error("expected the modification time to be stamped")
	}

	// One tagged field plus the modification stamp.
	if len(fields) != 2 {
		t.Errorf("expected 2 fields, got %d", len(fields))
	}
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID("evt-1", "id", "events")

	if len(filter.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(filter.Filters))
	}

	f, ok := filter.Filters[0].(dto.Filter)
	if !ok {
		t.Fatalf("expected a dto.Filter, got %T", filter.Filters[0])
	}

	if f.Field != "id" || f.Value != "evt-1" || f.Table != "events" {
		t.Errorf("unexpected filter contents: %+v", f)
	}

	if f.Operator != dto.FilterOperatorEq {
		t.Errorf("expected eq operator, got %v", f.Operator)
	}
}
