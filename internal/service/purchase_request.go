package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"example.com/procurement/internal/cache"
	"example.com/procurement/internal/models"
	"example.com/procurement/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// SubmitPurchaseRequest validates the employee and manager references, snapshots
// the requested lines and persists the request in the submitted state. The
// assigned manager is notified that a request awaits their approval.
func (s *procurementService) SubmitPurchaseRequest(ctx context.Context, req *SubmitPurchaseRequestRequest) (uuid.UUID, error) {
	txn := s.tracer.StartTransaction("SubmitPurchaseRequest")
	defer s.tracer.EndTransaction(txn)

	start := time.Now()
	defer func() { s.metrics.RecordTimer("submit_purchase_request", time.Since(start)) }()

	employeeID, err := parseID(req.EmployeeID)
	if err != nil {
		return uuid.Nil, err
	}
	managerID, err := parseID(req.ManagerID)
	if err != nil {
		return uuid.Nil, err
	}

	if len(req.Lines) == 0 {
		return uuid.Nil, NewValidationError("at least one line is required")
	}
	for _, line := range req.Lines {
		if !line.Qty.GreaterThan(decimal.Zero) {
			return uuid.Nil, NewValidationError(fmt.Sprintf("line qty must be positive for sku %s", line.SKU))
		}
	}

	if _, err := s.lookupActiveUser(ctx, employeeID, models.RoleEmployee); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, NewValidationError("invalid employee_id")
		}
		s.tracer.RecordError(txn, err)
		return uuid.Nil, err
	}
	if _, err := s.lookupActiveUser(ctx, managerID, models.RoleManager); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, NewValidationError("invalid manager_id")
		}
		s.tracer.RecordError(txn, err)
		return uuid.Nil, err
	}

	pr := &models.PurchaseRequest{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		ManagerID:  managerID,
		Reason:     req.Reason,
		Status:     models.PRStatusSubmitted,
	}
	pr.Lines = make([]models.PurchaseRequestLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		pr.Lines = append(pr.Lines, models.PurchaseRequestLine{
			ID:                uuid.New(),
			PurchaseRequestID: pr.ID,
			SKU:               line.SKU,
			Name:              line.Name,
			Qty:               line.Qty,
			UOM:               line.UOM,
		})
	}

	if err := s.prRepo.Create(ctx, pr); err != nil {
		s.tracer.RecordError(txn, err)
		return uuid.Nil, err
	}

	s.metrics.IncrementCounter("purchase_requests_submitted")
	log.Info().
		Str("pr_id", pr.ID.String()).
		Str("employee_id", employeeID.String()).
		Str("manager_id", managerID.String()).
		Int("lines", len(pr.Lines)).
		Msg("Purchase request submitted")

	s.notifier.NotifyUser(ctx, managerID,
		"New Purchase Request",
		fmt.Sprintf("PR %s awaiting your approval", pr.ID),
		models.LinkTypePR, pr.ID)

	return pr.ID, nil
}

// DecidePurchaseRequest applies a manager's approve or reject decision. Only
// the assigned manager may decide, and only while the request is still
// submitted; a second decision loses the conditional update and conflicts.
func (s *procurementService) DecidePurchaseRequest(ctx context.Context, req *DecisionRequest) error {
	txn := s.tracer.StartTransaction("DecidePurchaseRequest")
	defer s.tracer.EndTransaction(txn)

	prID, err := parseID(req.PRID)
	if err != nil {
		return err
	}
	managerID, err := parseID(req.ManagerID)
	if err != nil {
		return err
	}

	pr, err := s.prRepo.GetByID(ctx, prID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewNotFoundError("purchase request not found")
		}
		s.tracer.RecordError(txn, err)
		return err
	}

	if pr.ManagerID != managerID {
		return NewAuthorizationError("only the assigned manager can decide this request")
	}
	if pr.Status != models.PRStatusSubmitted {
		return NewConflictError(fmt.Sprintf("purchase request already %s", pr.Status))
	}

	updates := map[string]interface{}{}
	if req.Approve {
		now := time.Now()
		updates["status"] = models.PRStatusApproved
		updates["approved_by"] = managerID
		updates["approved_at"] = now
	} else {
		reason := ""
		if req.RejectedReason != nil {
			reason = *req.RejectedReason
		}
		updates["status"] = models.PRStatusRejected
		updates["rejected_reason"] = reason
	}

	matched, err := s.prRepo.TransitionStatus(ctx, prID, models.PRStatusSubmitted, updates)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}
	if !matched {
		return NewConflictError("purchase request was already decided")
	}

	if req.Approve {
		s.metrics.IncrementCounter("purchase_requests_approved")
		log.Info().Str("pr_id", prID.String()).Str("manager_id", managerID.String()).Msg("Purchase request approved")
		s.notifier.NotifyRole(ctx, models.RolePurchasing,
			"PR Approved",
			fmt.Sprintf("PR %s is ready for PO", prID),
			models.LinkTypePR, prID)
	} else {
		s.metrics.IncrementCounter("purchase_requests_rejected")
		log.Info().Str("pr_id", prID.String()).Str("manager_id", managerID.String()).Msg("Purchase request rejected")
		s.notifier.NotifyUser(ctx, pr.EmployeeID,
			"PR Rejected",
			fmt.Sprintf("PR %s was rejected", prID),
			models.LinkTypePR, prID)
	}

	return nil
}

// ListPurchaseRequests returns purchase requests matching the filter,
// newest first.
func (s *procurementService) ListPurchaseRequests(ctx context.Context, filter repository.PurchaseRequestFilter) ([]models.PurchaseRequest, error) {
	if filter.ManagerID != "" {
		if _, err := parseID(filter.ManagerID); err != nil {
			return nil, err
		}
	}
	if filter.EmployeeID != "" {
		if _, err := parseID(filter.EmployeeID); err != nil {
			return nil, err
		}
	}
	return s.prRepo.List(ctx, filter)
}

// lookupActiveUser resolves an active user carrying the given role, reading
// through the cache. A cache hit with the wrong role or an inactive flag is
// treated the same as a store miss.
func (s *procurementService) lookupActiveUser(ctx context.Context, id uuid.UUID, role models.UserRole) (*models.User, error) {
	key := cache.UserCacheKey(id)

	var cached models.User
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		if cached.Role == role && cached.IsActive {
			return &cached, nil
		}
		return nil, repository.ErrNotFound
	}

	user, err := s.userRepo.GetActiveWithRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, user, userCacheTTL); err != nil && !errors.Is(err, cache.ErrDisabled) {
		log.Warn().Err(err).Str("user_id", id.String()).Msg("Failed to cache user")
	}
	return user, nil
}
