package usecase

import (
	"context"
	"strings"

	"medical-center/internal/converter"
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
	"medical-center/internal/domain/repository"
	"medical-center/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultAuditLogLimit = 100

type AuditLogUsecase interface {
	List(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validator    *validator.CustomValidator
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		validator:    validator,
		auditLogRepo: auditLogRepo,
	}
}

// List returns the newest entries first, at most query.Limit of them
// (100 when unset).
func (u *auditLogUsecase) List(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	query.Action = strings.ToLower(strings.TrimSpace(query.Action))
	if errs := validate(u.validator, query); len(errs) > 0 {
		return nil, errs
	}

	filter := entity.AuditLogFilter{
		Action:  query.Action,
		ActorID: query.ActorID,
		Limit:   query.Limit,
	}
	if filter.Limit == 0 {
		filter.Limit = defaultAuditLogLimit
	}

	logs, err := u.auditLogRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, storageError(err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetByID(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, storageError(err)
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
