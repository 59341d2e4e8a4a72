package services

import (
	"context"
	"log"
	"sync"
	"time"

	"writeitgreat/proposal-evaluator/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(submissionID string)
}

type worker struct {
	subRepo          repositories.SubmissionRepository
	evaluatorService EvaluatorService
	jobQueue         chan string
	concurrency      int
	evalTimeout      time.Duration
	wg               sync.WaitGroup
	stopChan         chan struct{}
}

func NewWorker(
	subRepo repositories.SubmissionRepository,
	evaluatorService EvaluatorService,
	concurrency int,
	evalTimeout time.Duration,
) Worker {
	return &worker{
		subRepo:          subRepo,
		evaluatorService: evaluatorService,
		jobQueue:         make(chan string, 100),
		concurrency:      concurrency,
		evalTimeout:      evalTimeout,
		stopChan:         make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.reapStaleJobs()

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(submissionID string) {
	select {
	case w.jobQueue <- submissionID:
		log.Printf("📥 Submission %s enqueued\n", submissionID)
	case <-w.stopChan:
		log.Printf("⚠️ Worker stopped, cannot enqueue submission %s\n", submissionID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case submissionID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing submission %s\n", workerID, submissionID)
			if err := w.evaluatorService.EvaluateSubmission(ctx, submissionID); err != nil {
				log.Printf("❌ Worker #%d failed on submission %s: %v\n", workerID, submissionID, err)
			}
		}
	}
}

// reapStaleJobs fails submissions stuck in processing past the evaluation
// timeout. There is no automatic retry; the author resubmits, which creates
// a new submission.
func (w *worker) reapStaleJobs() {
	defer w.wg.Done()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			stale, err := w.subRepo.FindStaleProcessing(time.Now().Add(-w.evalTimeout), 10)
			if err != nil {
				log.Printf("⚠️ Failed to fetch stale submissions: %v\n", err)
				continue
			}

			for _, sub := range stale {
				log.Printf("⏱️ Submission %s timed out, marking as error\n", sub.ID)
				if err := w.subRepo.UpdateError(sub.ID, "Evaluation timed out. Please resubmit."); err != nil {
					log.Printf("⚠️ Failed to mark %s as errored: %v\n", sub.ID, err)
				}
			}
		}
	}
}
