package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/mdlinkcheck/internal/checker"
	"git.home.luguber.info/inful/mdlinkcheck/internal/config"
	"git.home.luguber.info/inful/mdlinkcheck/internal/logfields"
)

// Notifier publishes broken-link events to NATS.
type Notifier struct {
	conn    *nats.Conn
	subject string
}

// New connects to the configured NATS server.
func New(cfg config.NotifyConfig) (*Notifier, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("notifications are disabled")
	}

	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}

	conn, err := nats.Connect(url, nats.Name("mdlinkcheck"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS notifier connected", logfields.URL(url), slog.String("subject", cfg.Subject))

	return &Notifier{conn: conn, subject: cfg.Subject}, nil
}

// PublishReport publishes one event per broken finding in the report.
func (n *Notifier) PublishReport(rep *checker.Report) error {
	for _, f := range rep.Findings {
		if f.Verdict != checker.VerdictBroken {
			continue
		}

		event := BrokenLinkEvent{
			RunID:     rep.RunID,
			File:      f.File,
			Line:      f.Line,
			Target:    f.Target,
			Resolved:  f.Resolved,
			Kind:      string(f.Kind),
			Detail:    f.Detail,
			Timestamp: time.Now(),
		}

		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		if err := n.conn.Publish(n.subject, data); err != nil {
			return fmt.Errorf("failed to publish event: %w", err)
		}

		slog.Debug("Published broken link event",
			logfields.RunID(rep.RunID),
			logfields.Path(f.File),
			logfields.Target(f.Target))
	}

	return n.conn.Flush()
}

// Close drains and closes the NATS connection.
func (n *Notifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
