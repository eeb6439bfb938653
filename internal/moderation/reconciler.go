package moderation

import (
	"log"
	"time"

	"tgwarden/internal/policy"
	"tgwarden/internal/types"
)

// Reconciler periodically re-applies title/photo policies to channels.
// Channels do not deliver service-message updates for metadata changes,
// so the event pipeline never sees them; this job polls every known
// channel instead and corrects drift. It is advisory: any per-chat or
// per-call failure is swallowed and the sweep moves on.
type Reconciler struct {
	transport types.Transport
	policies  *policy.Cache
	interval  time.Duration
	warmup    time.Duration
	stopChan  chan struct{}
}

func NewReconciler(transport types.Transport, policies *policy.Cache, interval, warmup time.Duration) *Reconciler {
	return &Reconciler{
		transport: transport,
		policies:  policies,
		interval:  interval,
		warmup:    warmup,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine
func (r *Reconciler) Start() {
	go func() {
		select {
		case <-time.After(r.warmup):
		case <-r.stopChan:
			return
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.Sweep()
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-r.stopChan:
				return
			}
		}
	}()
	log.Printf("🔁 Channel reconciliation running every %s", r.interval)
}

// Stop ends the sweep loop
func (r *Reconciler) Stop() {
	close(r.stopChan)
}

// Sweep walks every known chat once. Only channels are touched; the
// cache is read per chat so no lock is held across transport calls.
func (r *Reconciler) Sweep() {
	for _, chatID := range r.policies.KnownChats() {
		chat, err := r.transport.GetChat(chatID)
		if err != nil {
			// bot removed / no permissions / chat not accessible
			continue
		}
		if chat.Kind != types.ChatKindChannel {
			continue
		}

		if info, locked := r.policies.LockedTitle(chatID); locked {
			if info.Title != "" && chat.Title != info.Title {
				if err := r.transport.SetChatTitle(chatID, info.Title); err == nil {
					log.Printf("🔒 Restored title of channel %d", chatID)
				}
			}
		}

		if r.policies.IsNoPhotoChat(chatID) && chat.PhotoPresent {
			if err := r.transport.DeleteChatPhoto(chatID); err == nil {
				log.Printf("🧼 Removed photo of channel %d", chatID)
			}
		}
	}
}
