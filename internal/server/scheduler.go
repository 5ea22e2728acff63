package server

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Scheduler hands out delayed phase-advance commands. Delivery is
// at-least-once from the caller's point of view: a task can fire after the
// phase already advanced, so every command it triggers must be idempotent.
type Scheduler interface {
	ScheduleCreativePhaseEnded(gameCode string, roundNumber int, delay time.Duration) string
	ScheduleScorePhaseEnded(gameCode string, roundNumber int, submissionID string, delay time.Duration) string
	ScheduleStartNewRound(gameCode string, roundNumber int, delay time.Duration) string
	CancelTask(taskID string) bool
	CancelAllForGame(gameCode string) int
}

// commandRunner is what scheduled tasks call back into when they fire.
type commandRunner interface {
	EndCreativePhase(gameCode string, roundNumber int) error
	EndScorePhase(gameCode string, roundNumber int, submissionID string) error
	StartNewRound(gameCode string, roundNumber int) error
}

type timerScheduler struct {
	mu     sync.Mutex
	nextID int
	tasks  map[string]*scheduledTask
	runner commandRunner
}

type scheduledTask struct {
	gameCode string
	timer    *time.Timer
}

func newTimerScheduler(runner commandRunner) *timerScheduler {
	return &timerScheduler{
		nextID: 1,
		tasks:  make(map[string]*scheduledTask),
		runner: runner,
	}
}

func (s *timerScheduler) schedule(gameCode string, delay time.Duration, fire func()) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("task-%d", s.nextID)
	s.nextID++
	task := &scheduledTask{gameCode: gameCode}
	task.timer = time.AfterFunc(delay, func() {
		s.consume(id)
		fire()
	})
	s.tasks[id] = task
	return id
}

func (s *timerScheduler) consume(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
}

func (s *timerScheduler) ScheduleCreativePhaseEnded(gameCode string, roundNumber int, delay time.Duration) string {
	return s.schedule(gameCode, delay, func() {
		if err := s.runner.EndCreativePhase(gameCode, roundNumber); err != nil {
			log.Printf("scheduled creative-phase end failed game_code=%s round=%d error=%v", gameCode, roundNumber, err)
		}
	})
}

func (s *timerScheduler) ScheduleScorePhaseEnded(gameCode string, roundNumber int, submissionID string, delay time.Duration) string {
	return s.schedule(gameCode, delay, func() {
		if err := s.runner.EndScorePhase(gameCode, roundNumber, submissionID); err != nil {
			log.Printf("scheduled score-phase end failed game_code=%s round=%d submission_id=%s error=%v", gameCode, roundNumber, submissionID, err)
		}
	})
}

func (s *timerScheduler) ScheduleStartNewRound(gameCode string, roundNumber int, delay time.Duration) string {
	return s.schedule(gameCode, delay, func() {
		if err := s.runner.StartNewRound(gameCode, roundNumber); err != nil {
			log.Printf("scheduled round start failed game_code=%s round=%d error=%v", gameCode, roundNumber, err)
		}
	})
}

func (s *timerScheduler) CancelTask(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(s.tasks, taskID)
	return true
}

func (s *timerScheduler) CancelAllForGame(gameCode string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, task := range s.tasks {
		if task.gameCode != gameCode {
			continue
		}
		task.timer.Stop()
		delete(s.tasks, id)
		count++
	}
	return count
}
