package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cognicard/internal/config"
	models "cognicard/internal/domain/models/library"
	"cognicard/internal/domain/repositories"
	libraryRepo "cognicard/internal/domain/repositories/library"
	"cognicard/internal/domain/services"
	librarySvc "cognicard/internal/domain/services/library"
	"cognicard/internal/metrics"
)

type folderService struct {
	folderRepo libraryRepo.FolderRepository
	txManager  repositories.TransactionManager
	authorizer services.ResourceAuthorizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo libraryRepo.FolderRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	m *metrics.Metrics,
	logger *slog.Logger,
) librarySvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		txManager:  txManager,
		authorizer: authorizer,
		metrics:    m,
		logger:     logger,
	}
}

// ListFolders returns every folder the user owns
func (s *folderService) ListFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	return s.folderRepo.ListByUser(ctx, userID)
}

// CreateFolder creates a new folder
func (s *folderService) CreateFolder(ctx context.Context, req *librarySvc.CreateFolderRequest) (folder *models.Folder, err error) {
	defer func() { s.metrics.RecordMutation("folder", "create", err) }()

	req.Name = strings.TrimSpace(req.Name)
	if req.ParentFolderID != nil && *req.ParentFolderID == "" {
		req.ParentFolderID = nil
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, validationError(err)
	}

	if req.ParentFolderID != nil {
		if err := s.authorizer.CanAccessFolder(ctx, req.UserID, *req.ParentFolderID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	folder = &models.Folder{
		UserID:         req.UserID,
		ParentFolderID: req.ParentFolderID,
		Name:           req.Name,
	}

	// Check and insert together so two creates can't both pass the sibling check
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		siblings, err := s.folderRepo.ListChildren(ctx, req.ParentFolderID, req.UserID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicate names: %w", err)
		}
		if err := ensureUniqueName("folder", folder.Name, "", foldersAsNamed(siblings)); err != nil {
			return err
		}
		return s.folderRepo.Create(ctx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", req.UserID,
		"parent_folder_id", folder.ParentFolderID,
	)

	return folder, nil
}

// UpdateFolder renames and/or moves a folder
func (s *folderService) UpdateFolder(ctx context.Context, userID, folderID string, req *librarySvc.UpdateFolderRequest) (folder *models.Folder, err error) {
	op := "update"
	if req.ParentFolderID.Present {
		op = "move"
	}
	defer func() { s.metrics.RecordMutation("folder", op, err) }()

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, validationError(err)
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		var err error
		folder, err = s.folderRepo.GetByID(ctx, folderID, userID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			folder.Name = *req.Name
		}

		// Tri-state: only relocate if the field was present
		if req.ParentFolderID.Present {
			newParent := req.ParentFolderID.Value
			if newParent != nil && *newParent == "" {
				newParent = nil
			}
			if newParent != nil {
				if err := validateNoCircularReference(ctx, s.folderRepo, userID, folderID, *newParent); err != nil {
					return err
				}
				s.logger.Debug("moving folder", "folder_id", folderID, "new_parent_id", *newParent)
			} else {
				s.logger.Debug("moving folder to root", "folder_id", folderID)
			}
			folder.ParentFolderID = newParent
		}

		siblings, err := s.folderRepo.ListChildren(ctx, folder.ParentFolderID, userID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicate names: %w", err)
		}
		if err := ensureUniqueName("folder", folder.Name, folder.ID, foldersAsNamed(siblings)); err != nil {
			return err
		}

		return s.folderRepo.Update(ctx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_folder_id", folder.ParentFolderID,
	)

	return folder, nil
}

// DeleteFolder deletes a folder. Child folders, decks and their cards cascade in the database.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) (err error) {
	defer func() { s.metrics.RecordMutation("folder", "delete", err) }()

	if err := s.folderRepo.Delete(ctx, folderID, userID); err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", folderID, "user_id", userID)
	return nil
}

func (s *folderService) validateCreateRequest(req *librarySvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name, nameRules(config.MaxFolderNameLength)...),
	)
}

func (s *folderService) validateUpdateRequest(req *librarySvc.UpdateFolderRequest) error {
	if req.Name == nil && !req.ParentFolderID.Present {
		return fmt.Errorf("at least one field must be provided")
	}

	if req.Name != nil {
		return validation.ValidateStruct(req,
			validation.Field(&req.Name, nameRules(config.MaxFolderNameLength)...),
		)
	}
	return nil
}
