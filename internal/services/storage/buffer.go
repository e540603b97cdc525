package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"peopledetect/internal/logger"
)

// Snapshot is an encoded frame waiting to be written to disk.
type Snapshot struct {
	Name string
	Data []byte
}

// BufferService keeps trigger snapshots in memory and writes them out
// periodically so the frame loop never waits on the disk.
type BufferService struct {
	imagesDir   string
	images      []Snapshot
	bufferLimit int
	mu          sync.Mutex
	logger      *logger.Logger
}

func NewBufferService(imagesDir string, bufferLimit int, logger *logger.Logger) *BufferService {
	return &BufferService{
		imagesDir:   imagesDir,
		bufferLimit: bufferLimit,
		images:      make([]Snapshot, 0),
		logger:      logger,
	}
}

// SnapshotName is the file name a snapshot of the actuation id taken at t is stored under.
func SnapshotName(t time.Time, id string) string {
	return fmt.Sprintf("%s_%s.jpg", t.Format("2006-01-02_15-04-05"), id)
}

// Run flushes the buffer every interval until ctx is done, then flushes once more.
func (s *BufferService) Run(ctx context.Context, flushInterval time.Duration) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.FlushImages()
			return
		case <-ticker.C:
			s.FlushImages()
		}
	}
}

// AddImage queues a snapshot. It reports false when the buffer is full and the
// snapshot was dropped.
func (s *BufferService) AddImage(name string, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.images) >= s.bufferLimit {
		s.logger.Warning("Snapshot buffer full (%d), dropping %s", s.bufferLimit, name)
		return false
	}
	s.images = append(s.images, Snapshot{Name: name, Data: data})
	s.logger.Debug("Buffer size: %d/%d", len(s.images), s.bufferLimit)
	return true
}

// FlushImages writes every buffered snapshot and returns how many were written.
func (s *BufferService) FlushImages() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.images) == 0 {
		return 0
	}

	if err := os.MkdirAll(s.imagesDir, 0755); err != nil {
		s.logger.Error("Error creating directory: %v", err)
		return 0
	}

	written := 0
	for _, image := range s.images {
		fullpath := filepath.Join(s.imagesDir, image.Name)
		if err := os.WriteFile(fullpath, image.Data, 0644); err != nil {
			s.logger.Error("Error saving image %s: %v", image.Name, err)
			continue
		}
		written++
	}

	s.logger.Info("Flushed %d images to disk", written)
	s.images = s.images[:0]
	return written
}
