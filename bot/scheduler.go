package bot

import (
	"context"
	"log"
	"time"

	"redditrequest-bot/command"
	"redditrequest-bot/monitor"
	"redditrequest-bot/scanner"
	"redditrequest-bot/utils"

	"github.com/robfig/cron/v3"
)

// scheduler drives the periodic tasks and their health monitors.
type scheduler struct {
	cron           *cron.Cron
	entries        map[string]cron.EntryID
	findMonitor    *monitor.Monitor
	updateMonitor  *monitor.Monitor
	refreshMonitor *monitor.Monitor
}

// startScheduler wires the three cron jobs: submission discovery, pinned
// thread updates and the slash-command refresh. A tick that is still
// running when its next schedule fires is skipped, never overlapped.
func (b *Bot) startScheduler() {
	log.Println("Initializing scheduler...")

	env := b.Settings.Env()
	s := &scheduler{
		cron:           cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		entries:        make(map[string]cron.EntryID),
		findMonitor:    monitor.New(b.Settings.Monitor.APIKey, "finding-posts", env),
		updateMonitor:  monitor.New(b.Settings.Monitor.APIKey, "updating-posts", env),
		refreshMonitor: monitor.New(b.Settings.Monitor.APIKey, "updating-slash-commands", env),
	}
	b.scheduler = s
	b.monitors = []*monitor.Monitor{s.findMonitor, s.updateMonitor, s.refreshMonitor}

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"findSubmissionsJob", b.Settings.FindSchedule(), b.runFindSubmissions},
		{"updatePinnedJob", b.Settings.UpdateSchedule(), b.runUpdatePinned},
		{"refreshCommandsJob", b.Settings.Schedules.RefreshCommands, b.runRefreshCommands},
	}
	for _, job := range jobs {
		id, err := s.cron.AddFunc(job.spec, job.run)
		if err != nil {
			log.Fatalf("Could not set up cron job %s: %v", job.name, err)
		}
		s.entries[job.name] = id
	}

	s.cron.Start()
	b.logNextRuns()
}

// stopScheduler stops the cron jobs.
func (b *Bot) stopScheduler() {
	if b.scheduler != nil {
		b.scheduler.cron.Stop()
		log.Println("Scheduler stopped.")
	}
}

// logNextRuns reports the time until each job's next execution.
func (b *Bot) logNextRuns() {
	for name, id := range b.scheduler.entries {
		next := b.scheduler.cron.Entry(id).Next
		if next.IsZero() {
			continue
		}
		log.Printf("Time until next execution of %s: %d min", name, int(time.Until(next).Round(time.Minute).Minutes()))
	}
}

// ScannerDeps bundles the bot's collaborators for the scanner loops. The
// interaction handlers reuse it to rebuild notification views on demand.
func (b *Bot) ScannerDeps() scanner.Deps {
	return scanner.Deps{
		Store:              b.Store,
		Source:             b.Reddit,
		Prober:             b.Prober,
		Messenger:          &discordMessenger{session: b.Session},
		ChannelName:        b.Settings.Bot.ChannelName,
		FindLimit:          b.Settings.Bot.FindLimit,
		RateLimitFloor:     b.Settings.Bot.RateLimitFloor,
		CommentLimit:       b.Settings.Bot.CommentLimit,
		CommentDepth:       b.Settings.Bot.CommentDepth,
		PinUpdateLimitDays: b.Settings.Bot.PinUpdateLimitDays,
	}
}

func (b *Bot) runFindSubmissions() {
	b.scheduler.findMonitor.Ping(monitor.StateRun)
	if err := scanner.FindSubmissions(context.Background(), b.ScannerDeps()); err != nil {
		log.Printf("Discovery run failed: %v", err)
		utils.Error("scanner", "findSubmissions", err.Error())
		b.scheduler.findMonitor.Ping(monitor.StateFailed)
	} else {
		b.scheduler.findMonitor.Ping(monitor.StateComplete)
	}
	b.logNextRuns()
}

func (b *Bot) runUpdatePinned() {
	b.scheduler.updateMonitor.Ping(monitor.StateRun)
	if err := scanner.UpdatePinnedThreads(context.Background(), b.ScannerDeps()); err != nil {
		log.Printf("Pinned update run failed: %v", err)
		utils.Error("scanner", "updatePinnedThreads", err.Error())
		b.scheduler.updateMonitor.Ping(monitor.StateFailed)
	} else {
		b.scheduler.updateMonitor.Ping(monitor.StateComplete)
	}
	b.logNextRuns()
}

func (b *Bot) runRefreshCommands() {
	b.scheduler.refreshMonitor.Ping(monitor.StateRun)
	if err := command.Register(b.Session); err != nil {
		log.Printf("Couldn't reload application commands: %v", err)
		utils.Error("command", "register", err.Error())
		b.scheduler.refreshMonitor.Ping(monitor.StateFailed)
		return
	}
	log.Println("Successfully reloaded application commands.")
	b.scheduler.refreshMonitor.Ping(monitor.StateComplete)
}
