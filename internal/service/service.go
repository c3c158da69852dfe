package service

import (
	"strings"

	"donation-service/internal/apperror"
	"donation-service/prometheus"
)

// recordFailure counts a failed call by error kind and passes err through
func recordFailure(operation string, err error) error {
	if err != nil {
		prometheus.RecordWorkflowError(operation, string(apperror.KindOf(err)))
	}
	return err
}

// trimmed returns nil for nil or blank strings
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
