package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"

	"github.com/google/uuid"
)

const (
	ExportFormatJSON = "json"
	ExportFormatTXT  = "txt"
	ExportFormatCSV  = "csv"
)

type messageStats struct {
	TotalMessages       int
	MessagesByRole      map[string]int
	TotalTokens         int
	AverageResponseTime float64
}

// computeMessageStats expects messages oldest first. A response time is the gap
// between a user entry and the assistant entry directly after it in the same thread.
func computeMessageStats(messages []*entity.Message) messageStats {
	stats := messageStats{
		TotalMessages:  len(messages),
		MessagesByRole: make(map[string]int),
	}

	lastInThread := make(map[uuid.UUID]*entity.Message)
	var totalGap time.Duration
	pairs := 0

	for _, m := range messages {
		stats.MessagesByRole[string(m.Role)]++
		stats.TotalTokens += m.Metadata.TokenCount

		if prev, ok := lastInThread[m.ThreadId]; ok &&
			prev.Role == entity.MessageRoleUser && m.Role == entity.MessageRoleAssistant {
			totalGap += m.CreatedAt.Sub(prev.CreatedAt)
			pairs++
		}
		lastInThread[m.ThreadId] = m
	}

	if pairs > 0 {
		stats.AverageResponseTime = float64(totalGap.Milliseconds()) / float64(pairs)
	}
	return stats
}

type chatExport struct {
	Chat       dto.ChatSummaryResponse `json:"chat"`
	Prompts    []dto.PromptResponse    `json:"prompts"`
	Messages   []dto.MessageResponse   `json:"messages"`
	ExportedAt time.Time               `json:"exportedAt"`
}

func renderExport(format string, chat *entity.Chat, prompts []*entity.Prompt, messages []*entity.Message, now time.Time) ([]byte, string, error) {
	switch format {
	case "", ExportFormatJSON:
		body, err := json.MarshalIndent(chatExport{
			Chat:       toChatSummary(chat),
			Prompts:    toPromptResponses(prompts),
			Messages:   toMessageResponses(messages),
			ExportedAt: now,
		}, "", "  ")
		return body, "application/json", err
	case ExportFormatTXT:
		return []byte(renderTranscript(chat, messages, now)), "text/plain; charset=utf-8", nil
	case ExportFormatCSV:
		return []byte(renderCSV(messages)), "text/csv; charset=utf-8", nil
	}
	return nil, "", fmt.Errorf("unsupported export format %q", format)
}

func renderTranscript(chat *entity.Chat, messages []*entity.Message, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chat: %s\n", chat.Title)
	fmt.Fprintf(&b, "Created: %s\n", chat.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Exported: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Messages: %d\n\n", len(messages))

	for i, m := range messages {
		fmt.Fprintf(&b, "%d. [%s] %s\n%s\n\n",
			i+1, strings.ToUpper(string(m.Role)), m.CreatedAt.UTC().Format(time.RFC3339), m.Content)
	}
	return b.String()
}

// renderCSV always quotes the content column; encoding/csv only quotes when needed.
// Newlines inside content stay inside the quotes, so a record may span several
// physical lines while the record count is still one per message.
func renderCSV(messages []*entity.Message) string {
	var b strings.Builder
	b.WriteString("timestamp,role,promptId,tokenCount,content\n")
	for _, m := range messages {
		fmt.Fprintf(&b, "%s,%s,%s,%d,\"%s\"\n",
			m.CreatedAt.UTC().Format(time.RFC3339),
			m.Role,
			m.PromptId,
			m.Metadata.TokenCount,
			strings.ReplaceAll(m.Content, `"`, `""`),
		)
	}
	return b.String()
}

func exportFilename(chat *entity.Chat, format string) string {
	if format == "" {
		format = ExportFormatJSON
	}
	return fmt.Sprintf("chat-%s.%s", chat.Id, format)
}
