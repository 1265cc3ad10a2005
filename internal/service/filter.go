package service

import (
	"go.uber.org/zap"

	"github.com/spec-kit/crm-access/internal/domain"
)

// gateFilter applies the filter-permission policy to a listing request.
// Unprivileged roles do not get an error: the filter is silently dropped
// with a warning and the unfiltered listing is returned. MANAGEMENT may
// filter any listing; entity-affine roles are added per call site.
func gateFilter(logger *zap.Logger, actor *domain.StaffMember, allowed []domain.StaffRole, entity, field, value string) (string, string) {
	if field == "" && value == "" {
		return field, value
	}
	for _, role := range allowed {
		if actor.Role == role {
			return field, value
		}
	}
	logger.Warn("filter dropped: role may not filter this listing",
		zap.String("entity", entity),
		zap.String("role", string(actor.Role)))
	return "", ""
}
