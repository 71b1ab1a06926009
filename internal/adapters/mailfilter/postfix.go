package mailfilter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/cyberguard/phishing-engine/internal/config"
	"github.com/cyberguard/phishing-engine/internal/core"
	"github.com/cyberguard/phishing-engine/internal/whitelist"
)

// PostfixFilter implements a Postfix content filter. It accepts mail on a
// local SMTP port, runs the message text through the detection engine,
// stamps the verdict headers and hands the message back to Postfix on the
// re-injection port.
type PostfixFilter struct {
	engine  *core.Engine
	logger  *zap.Logger
	cfg     config.MailFilterConfig
	trusted *whitelist.Checker
	server  *smtp.Server
}

// NewPostfixFilter creates a new Postfix content filter
func NewPostfixFilter(engine *core.Engine, logger *zap.Logger, cfg config.MailFilterConfig) *PostfixFilter {
	return &PostfixFilter{
		engine:  engine,
		logger:  logger,
		cfg:     cfg,
		trusted: whitelist.NewChecker(cfg.TrustedDomains, logger),
	}
}

// Start starts the Postfix filter service
func (f *PostfixFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("Postfix filter starting", zap.String("address", f.cfg.ListenAddress))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the Postfix filter service
func (f *PostfixFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// relayToPostfix sends the processed email back to Postfix on the
// re-injection port using go-smtp
func (f *PostfixFilter) relayToPostfix(sender string, recipients []string, emailData []byte) error {
	relayAddr := fmt.Sprintf("%s:%d", f.cfg.RelayAddress, f.cfg.RelayPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The message is already queued at this point.
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *PostfixFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		filter:     b.filter,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *PostfixFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for our filter)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the message and re-injects it with verdict headers
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.filter.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	textContent, err := extractTextFromMessage(msg)
	if err != nil {
		s.filter.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}
	subject := decodeHeader(msg.Header.Get("Subject"))
	if subject != "" {
		textContent = subject + "\n" + textContent
	}

	senderDomain := "unknown"
	if parts := strings.Split(s.sender, "@"); len(parts) == 2 {
		senderDomain = parts[1]
	}

	var result *core.PredictionResult
	var analysisErr error

	if s.filter.trusted.IsTrusted(s.sender) {
		// Mail from trusted domains bypasses analysis
		result = &core.PredictionResult{
			Label:       core.LabelLegitimate,
			Probability: core.Probability{Legitimate: 1.0},
			Confidence:  1.0,
			RiskLevel:   core.RiskVeryLow,
			Message:     "sender domain is trusted",
		}
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		result, analysisErr = s.filter.engine.Predict(ctx, textContent)
	}
	if analysisErr != nil {
		// Oversized or otherwise unanalyzable mail passes through unscored.
		s.filter.logger.Warn("Failed to analyze email",
			zap.Error(analysisErr),
			zap.String("sender", s.sender),
			zap.String("sender_domain", senderDomain))
		result = &core.PredictionResult{
			Label:   core.LabelUnknown,
			Message: fmt.Sprintf("analysis error: %v", analysisErr),
		}
	}

	cfg := s.filter.cfg
	isPhishing := result.Label == core.LabelPhishing

	if isPhishing && result.RiskLevel == core.RiskHigh && cfg.BlockHighRisk && analysisErr == nil {
		s.filter.logger.Info("Rejecting phishing email",
			zap.String("from", s.sender),
			zap.String("sender_domain", senderDomain),
			zap.Float64("score", result.Probability.Phishing),
			zap.String("model", result.ModelUsed))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as phishing (score: %.2f)", result.Probability.Phishing),
		}
	}

	// Prepend the verdict headers, then replay the original message
	// untouched so MIME parts and attachments survive.
	var modifiedEmail bytes.Buffer
	fmt.Fprintf(&modifiedEmail, "%s: %s\r\n", cfg.StatusHeader, result.Label)
	if result.RiskLevel != "" {
		fmt.Fprintf(&modifiedEmail, "%s: %s\r\n", cfg.RiskHeader, result.RiskLevel)
	}
	fmt.Fprintf(&modifiedEmail, "%s: %.4f\r\n", cfg.ScoreHeader, result.Probability.Phishing)
	modifiedEmail.Write(rawData)

	if cfg.RelayEnabled {
		if err := s.filter.relayToPostfix(s.sender, s.recipients, modifiedEmail.Bytes()); err != nil {
			s.filter.logger.Error("Failed to send email back to Postfix",
				zap.Error(err),
				zap.String("sender", s.sender))
			return err
		}
	}

	s.filter.logger.Info("Processed email",
		zap.String("from", s.sender),
		zap.String("sender_domain", senderDomain),
		zap.Bool("is_phishing", isPhishing),
		zap.Float64("score", result.Probability.Phishing),
		zap.String("risk", string(result.RiskLevel)),
		zap.String("model", result.ModelUsed))

	return nil
}

// Logout handles SMTP logout (not needed for our filter)
func (s *smtpSession) Logout() error {
	return nil
}
