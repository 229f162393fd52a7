package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"wcm/internal/repository"
)

// Scheduler periodically promotes due scheduled campaigns into the send
// pipeline.
type Scheduler struct {
	cron         *cron.Cron
	spec         string
	campaignRepo repository.CampaignRepository
	campaigns    *CampaignService
}

// NewScheduler creates a scheduler sweeping on the given cron spec
// (typically every minute).
func NewScheduler(spec string, campaignRepo repository.CampaignRepository, campaigns *CampaignService) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		spec:         spec,
		campaignRepo: campaignRepo,
		campaigns:    campaigns,
	}
}

// Start registers the sweep and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Scheduler started with spec %q", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running sweep to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep selects due scheduled campaigns and triggers a send for each.
// The claim inside TriggerSend keeps repeated ticks idempotent: once a
// campaign leaves scheduled it is never selected again. One campaign's
// failure never aborts the rest of the tick.
func (s *Scheduler) Sweep(ctx context.Context) {
	due, err := s.campaignRepo.ListDue(ctx, time.Now())
	if err != nil {
		log.Printf("Scheduler sweep failed to list due campaigns: %v", err)
		return
	}

	for _, campaign := range due {
		result, err := s.campaigns.TriggerSend(ctx, campaign.ID)
		if err != nil {
			// Lost the race against an explicit send, or the send setup
			// failed; either way, move on to the next campaign.
			log.Printf("Scheduler sweep skipping campaign %s: %v", campaign.ID, err)
			continue
		}
		log.Printf("Scheduler dispatched campaign %s to %d recipient(s)", result.CampaignID, result.Recipients)
	}
}
