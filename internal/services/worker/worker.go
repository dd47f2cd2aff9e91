// Package worker provides a background job processing system using goroutines.
//
// Go Pattern: Goroutines and channels are Go's concurrency primitives.
// A goroutine is like a lightweight thread (thousands are fine), and
// channels are typed pipes for communication between goroutines.
//
// This worker pool pattern is very common in Go:
// 1. Create a buffered channel as a job queue
// 2. Spawn N worker goroutines that read from the channel
// 3. Send jobs to the channel from your HTTP handlers
// 4. Workers process jobs concurrently
//
// Think of it like a restaurant: the channel is the order window,
// workers are the cooks, and handlers are the waiters taking orders.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/podpicker/podpicker-api/internal/database"
	"github.com/podpicker/podpicker-api/internal/models"
	"github.com/podpicker/podpicker-api/internal/services/topics"
	"github.com/podpicker/podpicker-api/internal/services/transcript"
)

// JobType identifies what kind of work a job represents.
type JobType string

const (
	JobTopicAnalysis JobType = "topic_analysis"
)

// Job represents a unit of work to be processed by a worker.
type Job struct {
	ID        string // The analyses table row ID
	Type      JobType
	Payload   json.RawMessage // Flexible payload — different job types need different data
	CreatedAt time.Time
}

// AnalysisPayload is the data needed for a topic-analysis job.
type AnalysisPayload struct {
	TranscriptID string `json:"transcript_id"`
	Model        string `json:"model"`
}

// Pool manages a pool of worker goroutines.
type Pool struct {
	// Go Pattern: Channels are the backbone of Go concurrency.
	// This buffered channel acts as our job queue.
	// Buffered means it can hold `queueSize` jobs before blocking.
	jobs      chan Job
	workers   int
	db        *database.DB
	segmenter *topics.Service

	// Go Pattern: sync.WaitGroup tracks running goroutines.
	// We call wg.Add(1) when starting a worker, wg.Done() when it finishes,
	// and wg.Wait() blocks until all workers are done (used for graceful shutdown).
	wg sync.WaitGroup

	// Go Pattern: context.Context with cancel for graceful shutdown.
	// When we call cancel(), all workers' contexts are cancelled.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a new worker pool.
func NewPool(workers, queueSize int, db *database.DB, segmenter *topics.Service) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		jobs:      make(chan Job, queueSize), // Buffered channel
		workers:   workers,
		db:        db,
		segmenter: segmenter,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	log.Printf("🚀 Starting %d background workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop gracefully shuts down all workers.
// Go Pattern: Close the channel + cancel the context + wait for completion.
func (p *Pool) Stop() {
	log.Println("⏹️  Stopping workers...")
	p.cancel()
	close(p.jobs)
	p.wg.Wait()
	log.Println("✅ All workers stopped")
}

// Submit adds a job to the queue.
// Returns an error if the queue is full (non-blocking).
func (p *Pool) Submit(job Job) error {
	// Go Pattern: `select` with `default` makes channel operations non-blocking.
	// Without default, sending to a full channel would block the HTTP handler.
	select {
	case p.jobs <- job:
		log.Printf("📥 Job queued: %s (type: %s)", job.ID, job.Type)
		return nil
	default:
		return fmt.Errorf("job queue is full; try again later")
	}
}

// QueueSize returns the current number of jobs in the queue.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	log.Printf("👷 Worker %d started", id)

	// Go Pattern: `range` over a channel reads values until the channel is closed.
	for job := range p.jobs {
		select {
		case <-p.ctx.Done():
			log.Printf("👷 Worker %d shutting down", id)
			return
		default:
		}

		log.Printf("👷 Worker %d processing job: %s (type: %s)", id, job.ID, job.Type)

		var err error
		switch job.Type {
		case JobTopicAnalysis:
			err = p.processAnalysis(job)
		default:
			log.Printf("❌ Worker %d: unknown job type: %s", id, job.Type)
		}

		if err != nil {
			log.Printf("❌ Worker %d: job %s failed: %v", id, job.ID, err)
		} else {
			log.Printf("✅ Worker %d: job %s completed", id, job.ID)
		}
	}

	log.Printf("👷 Worker %d stopped", id)
}

// processAnalysis runs topic segmentation for one analysis record and writes
// the outcome back. A failure is stored on the row so the client polling
// GET /analyses/:id sees why it failed.
func (p *Pool) processAnalysis(job Job) error {
	ctx := p.ctx

	var payload AnalysisPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("invalid analysis payload: %w", err)
	}

	a, err := p.db.GetAnalysis(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	a.Status = models.StatusProcessing
	if err := p.db.UpdateAnalysis(ctx, a); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	t, err := p.db.GetTranscript(ctx, payload.TranscriptID)
	if err != nil {
		p.failAnalysis(ctx, a, fmt.Sprintf("transcript not found: %v", err))
		return fmt.Errorf("transcript not found: %w", err)
	}

	tr, err := transcriptFromRow(t)
	if err != nil {
		p.failAnalysis(ctx, a, fmt.Sprintf("corrupt cached segments: %v", err))
		return fmt.Errorf("corrupt cached segments: %w", err)
	}

	result, err := p.segmenter.Segment(ctx, tr, payload.Model)
	if err != nil {
		p.failAnalysis(ctx, a, err.Error())
		return fmt.Errorf("topic segmentation failed: %w", err)
	}

	topicsJSON, err := json.Marshal(result.Topics)
	if err != nil {
		p.failAnalysis(ctx, a, fmt.Sprintf("failed to encode topics: %v", err))
		return fmt.Errorf("failed to encode topics: %w", err)
	}

	a.Status = models.StatusCompleted
	a.Topics = topicsJSON
	a.ModelUsed = result.Model
	a.ErrorMessage = ""
	if err := p.db.UpdateAnalysis(ctx, a); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// transcriptFromRow rebuilds a pipeline result from a cached database row.
func transcriptFromRow(t *models.Transcript) (*transcript.Result, error) {
	var segments []transcript.Segment
	if err := json.Unmarshal(t.Segments, &segments); err != nil {
		return nil, err
	}
	return &transcript.Result{
		VideoID:  t.VideoID,
		Title:    t.Title,
		Segments: segments,
		FullText: t.FullText,
		Strategy: t.Strategy,
	}, nil
}

// failAnalysis marks the record failed; the write error (if any) is logged
// rather than propagated since the job is already failing.
func (p *Pool) failAnalysis(ctx context.Context, a *models.Analysis, message string) {
	a.Status = models.StatusFailed
	a.ErrorMessage = message
	if err := p.db.UpdateAnalysis(ctx, a); err != nil {
		log.Printf("⚠️  Failed to record analysis failure for %s: %v", a.ID, err)
	}
}
