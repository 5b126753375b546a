package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type jsonFormatter struct {
	TimestampFormat string
}

type textFormatter struct {
	TimestampFormat string
	DisableColors   bool
}

func (f *jsonFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Data)+4)

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = time.RFC3339
	}
	data["timestamp"] = entry.Time.Format(timestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if entry.HasCaller() {
		data["caller"] = fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
	}

	for k, v := range entry.Data {
		data[k] = v
	}

	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	if err := json.NewEncoder(b).Encode(data); err != nil {
		return nil, fmt.Errorf("failed to marshal fields to JSON: %w", err)
	}

	return b.Bytes(), nil
}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = "2006-01-02 15:04:05"
	}

	var levelColor string
	if !f.DisableColors {
		switch entry.Level {
		case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
			levelColor = "\033[31m"
		case logrus.WarnLevel:
			levelColor = "\033[33m"
		case logrus.InfoLevel:
			levelColor = "\033[36m"
		default:
			levelColor = "\033[37m"
		}
	}

	fmt.Fprintf(b, "%s [%s%s%s] ",
		entry.Time.Format(timestampFormat),
		levelColor,
		strings.ToUpper(entry.Level.String()),
		"\033[0m",
	)

	if entry.HasCaller() {
		fmt.Fprintf(b, "[%s:%d] ", entry.Caller.File, entry.Caller.Line)
	}

	fmt.Fprintf(b, "%s", entry.Message)

	if len(entry.Data) > 0 {
		fields := make([]string, 0, len(entry.Data))
		for k, v := range entry.Data {
			fields = append(fields, fmt.Sprintf("%s=%v", k, v))
		}
		sort.Strings(fields)
		fmt.Fprintf(b, " %s", strings.Join(fields, " "))
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}

// AuditLogger records authentication and account-change events on top
// of an existing logger. Every record carries a "type" field so audit
// entries can be filtered out of the main log stream downstream.
type AuditLogger struct {
	base *Logger
}

func NewAuditLogger(base *Logger) *AuditLogger {
	return &AuditLogger{base: base}
}

// LogAuthEvent records a login, signup, refresh or logout attempt.
// userID is empty when the attempt failed before identification.
func (a *AuditLogger) LogAuthEvent(event, userID, provider string, success bool) {
	fields := map[string]interface{}{
		"event":   event,
		"success": success,
		"type":    "auth_event",
	}

	if provider != "" {
		fields["provider"] = provider
	}
	if userID != "" {
		fields["user_id"] = userID
	}

	a.base.WithFields(fields).Info("Auth event")
}

// LogProfileChange records which profile fields a user modified,
// without the new values.
func (a *AuditLogger) LogProfileChange(userID string, changedFields []string) {
	sorted := make([]string, len(changedFields))
	copy(sorted, changedFields)
	sort.Strings(sorted)

	a.base.WithFields(map[string]interface{}{
		"user_id": userID,
		"fields":  strings.Join(sorted, ","),
		"type":    "profile_change",
	}).Info("Profile updated")
}
