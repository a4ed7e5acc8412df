package logparse

import (
	"regexp"
	"strings"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// LevelRegex matches level words commonly embedded in log text.
var LevelRegex = regexp.MustCompile(`(?i)\b(TRACE|DEBUG|INFO|WARN|WARNING|ERROR|FATAL|CRITICAL|AUTH|ATTACK)\b`)

// NormalizeLevel folds the many spellings of a level into the dashboard's six
// levels. Anything unrecognized becomes INFO.
func NormalizeLevel(level string) model.Level {
	normalized := strings.ToUpper(strings.TrimSpace(level))

	switch normalized {
	case "DEBUG", "DEBU", "DBG", "DEB", "TRACE", "TRAC", "TRC":
		return model.LevelDebug
	case "INFO", "INFORMATION", "INF", "NOTICE":
		return model.LevelInfo
	case "WARN", "WARNING", "WRNG", "WRN":
		return model.LevelWarn
	case "ERROR", "ERR", "ERRO", "FATAL", "FATL", "FTL", "CRITICAL", "CRIT", "CRT", "PANIC", "PNC":
		return model.LevelError
	case "AUTH", "AUTHN", "AUTHZ", "AUTHENTICATION", "LOGIN", "SESSION":
		return model.LevelAuth
	case "ATTACK", "ATK", "INTRUSION", "ALERT", "THREAT":
		return model.LevelAttack
	default:
		if len(normalized) >= 4 {
			switch normalized[:4] {
			case "DEBU", "TRAC":
				return model.LevelDebug
			case "INFO":
				return model.LevelInfo
			case "WARN":
				return model.LevelWarn
			case "ERRO", "FATA", "CRIT":
				return model.LevelError
			case "AUTH":
				return model.LevelAuth
			case "ATTA":
				return model.LevelAttack
			}
		}
		return model.LevelInfo
	}
}

// ExtractLevelFromText finds the first level word in a message.
func ExtractLevelFromText(message string) model.Level {
	matches := LevelRegex.FindStringSubmatch(message)
	if len(matches) > 1 {
		return NormalizeLevel(matches[1])
	}
	return model.LevelInfo
}

// SeverityNumberToLevel maps OTLP SeverityNumber ranges (1-24) onto levels.
func SeverityNumberToLevel(n int) model.Level {
	switch {
	case n <= 0:
		return model.LevelInfo
	case n < 9:
		return model.LevelDebug
	case n < 13:
		return model.LevelInfo
	case n < 17:
		return model.LevelWarn
	default:
		return model.LevelError
	}
}
