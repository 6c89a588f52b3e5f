package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coachpack/internal/domain"
	"coachpack/internal/repository"
	"coachpack/internal/saveq"
	"coachpack/internal/storage"
)

// ErrVisionItemNotFound is returned for upload/image requests against an
// unknown board item.
var ErrVisionItemNotFound = errors.New("vision board item not found")

// VisionService is the vision-board store. Board saves debounce like the
// other feature stores; image bytes never pass through the server, items
// get presigned upload and download URLs against object storage instead.
type VisionService interface {
	Get(ctx context.Context, userID string) (domain.VisionBoard, error)
	Save(ctx context.Context, userID string, board domain.VisionBoard) (domain.VisionBoard, error)
	ItemUploadURL(ctx context.Context, userID, itemID, contentType string) (string, error)
	ItemImageURL(ctx context.Context, userID, itemID string) (string, error)
}

type visionService struct {
	visionRepo repository.VisionRepository
	images     storage.ImageStorage
	saves      *saveq.Queue

	mu    sync.Mutex
	cache map[string]domain.VisionBoard
}

// NewVisionService creates a new instance of visionService. images may be
// nil when no object storage is configured; upload/download requests then
// fail cleanly while the rest of the board keeps working.
func NewVisionService(visionRepo repository.VisionRepository, images storage.ImageStorage, saves *saveq.Queue) VisionService {
	return &visionService{
		visionRepo: visionRepo,
		images:     images,
		saves:      saves,
		cache:      make(map[string]domain.VisionBoard),
	}
}

func (s *visionService) Get(ctx context.Context, userID string) (domain.VisionBoard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	board, err := s.loadLocked(ctx, userID)
	if err != nil {
		return domain.VisionBoard{}, err
	}
	// Callers serialize the items outside the lock; upload-URL requests
	// mutate the cached items in place, so hand out a copy.
	return copyVisionBoard(board), nil
}

// Save replaces the board. Images belonging to items that disappeared in
// the replacement are deleted from object storage; a failed delete only
// leaks an orphan object, so it is logged by the storage layer and not
// surfaced.
func (s *visionService) Save(ctx context.Context, userID string, board domain.VisionBoard) (domain.VisionBoard, error) {
	board.Normalize()
	board.LastUpdated = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, err := s.loadLocked(ctx, userID)
	if err != nil {
		return domain.VisionBoard{}, err
	}

	// Keep existing image keys on surviving items; clients never see or
	// send the key itself.
	for i := range board.Items {
		if prev := previous.FindItem(board.Items[i].ID); prev != nil && board.Items[i].ImageKey == "" {
			board.Items[i].ImageKey = prev.ImageKey
			board.Items[i].ContentType = prev.ContentType
			board.Items[i].UploadedAt = prev.UploadedAt
		}
	}
	if s.images != nil {
		for _, prev := range previous.Items {
			if prev.ImageKey != "" && board.FindItem(prev.ID) == nil {
				_ = s.images.DeleteObject(ctx, prev.ImageKey)
			}
		}
	}

	s.cache[userID] = board
	s.scheduleSaveLocked(userID, board)
	return copyVisionBoard(board), nil
}

// ItemUploadURL assigns the item's object key and returns a presigned PUT
// URL for the client to upload against.
func (s *visionService) ItemUploadURL(ctx context.Context, userID, itemID, contentType string) (string, error) {
	if s.images == nil {
		return "", errors.New("image storage is not configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	board, err := s.loadLocked(ctx, userID)
	if err != nil {
		return "", err
	}
	item := board.FindItem(itemID)
	if item == nil {
		return "", ErrVisionItemNotFound
	}

	item.ImageKey = fmt.Sprintf("vision/%s/%s", userID, itemID)
	item.ContentType = contentType
	item.UploadedAt = time.Now().UTC()
	s.cache[userID] = board
	s.scheduleSaveLocked(userID, board)

	return s.images.GeneratePresignedUploadURL(ctx, item.ImageKey, contentType, storage.DefaultPresignedURLExpiry)
}

// ItemImageURL returns a presigned GET URL for an item's stored image.
func (s *visionService) ItemImageURL(ctx context.Context, userID, itemID string) (string, error) {
	if s.images == nil {
		return "", errors.New("image storage is not configured")
	}

	s.mu.Lock()
	board, err := s.loadLocked(ctx, userID)
	if err == nil {
		board = copyVisionBoard(board)
	}
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	item := board.FindItem(itemID)
	if item == nil || item.ImageKey == "" {
		return "", ErrVisionItemNotFound
	}
	return s.images.GeneratePresignedDownloadURL(ctx, item.ImageKey, storage.DefaultPresignedURLExpiry)
}

// scheduleSaveLocked snapshots the board and enqueues the debounced
// write. Callers hold s.mu; the snapshot keeps the save independent of
// later cache mutations.
func (s *visionService) scheduleSaveLocked(userID string, board domain.VisionBoard) {
	snapshot := copyVisionBoard(board)
	s.saves.Enqueue(fmt.Sprintf("vision:%s", userID), func(ctx context.Context) error {
		return s.visionRepo.Upsert(ctx, userID, snapshot)
	})
}

func copyVisionBoard(b domain.VisionBoard) domain.VisionBoard {
	b.Items = append([]domain.VisionItem(nil), b.Items...)
	return b
}

func (s *visionService) loadLocked(ctx context.Context, userID string) (domain.VisionBoard, error) {
	if board, ok := s.cache[userID]; ok {
		return board, nil
	}
	stored, err := s.visionRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			board := domain.VisionBoard{}
			board.Normalize()
			s.cache[userID] = board
			return board, nil
		}
		return domain.VisionBoard{}, err
	}
	s.cache[userID] = *stored
	return *stored, nil
}
