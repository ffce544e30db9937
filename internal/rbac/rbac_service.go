package rbac

import (
	"sync"

	"go-payroll/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadOrgPolicy(orgID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   zap.L().Named("rbac.service"),
	}
}

func (s *service) LoadOrgPolicy(orgID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadOrgPolicyUnlocked(orgID)
}

func (s *service) loadOrgPolicyUnlocked(orgID string) error {
	s.enforcer.ClearPolicy()

	actorRoles, err := s.repo.GetActorRoles(orgID)
	if err != nil {
		return err
	}

	for _, ar := range actorRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ar.ActorID, ar.RoleID, orgID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(orgID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, orgID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadOrgPolicyUnlocked(req.OrgID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.ActorID,
		req.OrgID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("actor_id", req.ActorID),
		zap.String("org_id", req.OrgID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}
