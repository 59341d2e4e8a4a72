package services

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"writeitgreat/proposal-evaluator/internal/config"
	"writeitgreat/proposal-evaluator/internal/models"
	"writeitgreat/proposal-evaluator/internal/scoring"
)

// EmailMessage is one outbound mail.
type EmailMessage struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// EmailSender abstracts the transport so tests can capture messages.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPClient sends mail over plain SMTP.
type SMTPClient struct {
	addr string
	auth smtp.Auth
}

func NewSMTPClient(cfg config.SMTPConfig) *SMTPClient {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPClient{addr: addr, auth: auth}
}

func (c *SMTPClient) Send(ctx context.Context, msg EmailMessage) error {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ",")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	return smtp.SendMail(c.addr, c.auth, msg.From, msg.To, []byte(b.String()))
}

// NotifierService tells the team about a finished evaluation. Notification
// is best-effort: every failure is logged and swallowed, and never changes
// the submission's state.
type NotifierService interface {
	NotifyTeam(ctx context.Context, sub *models.Submission, result *models.EvaluationResult)
}

type notifierService struct {
	cfg    config.SMTPConfig
	sender EmailSender
}

func NewNotifierService(cfg config.SMTPConfig, sender EmailSender) NotifierService {
	if sender == nil {
		sender = NewSMTPClient(cfg)
	}
	return &notifierService{cfg: cfg, sender: sender}
}

func tierEmoji(tier scoring.Tier) string {
	switch tier {
	case scoring.TierA:
		return "🌟"
	case scoring.TierB:
		return "⭐"
	case scoring.TierC:
		return "📋"
	default:
		return "📁"
	}
}

func tierAction(tier scoring.Tier) string {
	switch tier {
	case scoring.TierA:
		return "PRIORITY: Review and schedule strategy call within 24 hours"
	case scoring.TierB:
		return "Review and schedule discovery call within 48 hours"
	case scoring.TierC:
		return "Auto-processed - Feedback sent with coaching information"
	default:
		return "Auto-processed - Decline sent with feedback and resources"
	}
}

func (n *notifierService) NotifyTeam(ctx context.Context, sub *models.Submission, result *models.EvaluationResult) {
	if n.cfg.Host == "" {
		n.logFallback(sub, result)
		return
	}

	msg := EmailMessage{
		From: fmt.Sprintf("%s <%s>", n.cfg.FromName, n.cfg.FromEmail),
		To:   []string{n.cfg.TeamEmail},
		Subject: fmt.Sprintf("%s [%s-Tier] New Proposal: %s by %s",
			tierEmoji(result.Tier), result.Tier, sub.BookTitle, sub.AuthorName),
		Body: buildTeamBody(sub, result),
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		log.Printf("⚠️ Team notification failed for %s: %v\n", sub.ID, err)
		n.logFallback(sub, result)
		return
	}

	log.Printf("✅ Team notification sent for %s\n", sub.ID)
}

func buildTeamBody(sub *models.Submission, result *models.EvaluationResult) string {
	var b strings.Builder

	b.WriteString("WRITE IT GREAT - NEW PROPOSAL SUBMISSION\n")
	b.WriteString("========================================\n\n")
	b.WriteString(fmt.Sprintf("TIER %s | Score: %.2f/100\n\n", result.Tier, result.TotalScore))
	b.WriteString(fmt.Sprintf("ACTION REQUIRED: %s\n\n", tierAction(result.Tier)))

	b.WriteString("SUBMISSION DETAILS\n------------------\n")
	b.WriteString(fmt.Sprintf("Submission ID: %s\n", sub.ID))
	b.WriteString(fmt.Sprintf("Book Title: %s\n", sub.BookTitle))
	b.WriteString(fmt.Sprintf("Author: %s (%s)\n", sub.AuthorName, sub.AuthorEmail))
	b.WriteString(fmt.Sprintf("Proposal Type: %s\n", strings.ReplaceAll(sub.ProposalType, "_", " ")))
	b.WriteString(fmt.Sprintf("Submitted: %s\n\n", sub.CreatedAt.Format("January 2, 2006 at 3:04 PM")))

	b.WriteString("EXECUTIVE SUMMARY\n-----------------\n")
	b.WriteString(result.ExecutiveSummary + "\n\n")

	b.WriteString("SCORE BREAKDOWN\n---------------\n")
	labels := map[string]string{
		scoring.CategoryMarketing:    "Marketing & Platform",
		scoring.CategoryOverview:     "Overview & Concept",
		scoring.CategoryCredentials:  "Author Credentials",
		scoring.CategoryComps:        "Comparative Titles",
		scoring.CategoryWriting:      "Sample Writing",
		scoring.CategoryOutline:      "Book Outline",
		scoring.CategoryCompleteness: "Completeness",
	}
	for _, category := range scoring.Categories {
		b.WriteString(fmt.Sprintf("%s: %d/100\n", labels[category], result.BucketedScores[category]))
	}
	b.WriteString("\n")

	if result.AdvanceEstimate.Viable {
		b.WriteString(fmt.Sprintf("ADVANCE ESTIMATE: $%d - $%d (Confidence: %s)\n\n",
			result.AdvanceEstimate.LowRange, result.AdvanceEstimate.HighRange, result.AdvanceEstimate.Confidence))
	} else {
		b.WriteString("ADVANCE ESTIMATE: Not viable at this tier\n\n")
	}

	b.WriteString("TOP STRENGTHS\n-------------\n")
	for _, s := range result.TopStrengths {
		b.WriteString("- " + s + "\n")
	}
	b.WriteString("\nKEY IMPROVEMENTS NEEDED\n-----------------------\n")
	for _, i := range result.TopImprovements {
		b.WriteString("- " + i + "\n")
	}

	b.WriteString(fmt.Sprintf("\n---\n© %d Write It Great LLC. Internal use only.\n", time.Now().Year()))

	return b.String()
}

func (n *notifierService) logFallback(sub *models.Submission, result *models.EvaluationResult) {
	log.Println(strings.Repeat("=", 60))
	log.Println("📧 TEAM NOTIFICATION (email not configured)")
	log.Printf("Tier: %s | Score: %.2f/100\n", result.Tier, result.TotalScore)
	log.Printf("Book: %s\n", sub.BookTitle)
	log.Printf("Author: %s (%s)\n", sub.AuthorName, sub.AuthorEmail)
	log.Printf("ID: %s\n", sub.ID)
	log.Println(strings.Repeat("=", 60))
}
