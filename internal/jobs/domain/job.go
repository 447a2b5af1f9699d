// Package domain holds the job lifecycle rules.
package domain

import "appraisal_portal_backend/internal/catalog"

type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Open reports whether the job can still change.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusScheduled
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ServiceType classifies a job by what was ordered.
type ServiceType string

const (
	ServiceTypePhotography          ServiceType = "photography"
	ServiceTypeAppraisal            ServiceType = "appraisal"
	ServiceTypeAppraisalPhotography ServiceType = "appraisal_photography"
)

// ServiceTypeFor derives the job type from the selected service ids.
func ServiceTypeFor(services []string) ServiceType {
	hasAppraisal, hasOther := false, false
	for _, id := range services {
		if id == catalog.AppraisalID {
			hasAppraisal = true
		} else {
			hasOther = true
		}
	}
	switch {
	case hasAppraisal && hasOther:
		return ServiceTypeAppraisalPhotography
	case hasAppraisal:
		return ServiceTypeAppraisal
	default:
		return ServiceTypePhotography
	}
}
