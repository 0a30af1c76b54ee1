package keywords

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2/types"
)

// DefaultSessionID is the Lex session used for every query. Queries are
// independent, so sharing one session is harmless.
const DefaultSessionID = "search-photos-session"

// LexAPI is the subset of the Lex V2 runtime client the extractor uses.
type LexAPI interface {
	RecognizeText(ctx context.Context, params *lexruntimev2.RecognizeTextInput, optFns ...func(*lexruntimev2.Options)) (*lexruntimev2.RecognizeTextOutput, error)
}

// LexConfig identifies the bot that interprets queries.
type LexConfig struct {
	BotID      string
	BotAliasID string
	LocaleID   string
	SessionID  string
}

// LexExtractor reads keywords from the slots a Lex bot fills for the query.
type LexExtractor struct {
	client LexAPI
	cfg    LexConfig
}

// NewLexExtractor creates an extractor for the bot in cfg.
func NewLexExtractor(client LexAPI, cfg LexConfig) *LexExtractor {
	if cfg.LocaleID == "" {
		cfg.LocaleID = "en_US"
	}
	if cfg.SessionID == "" {
		cfg.SessionID = DefaultSessionID
	}
	return &LexExtractor{client: client, cfg: cfg}
}

// Extract implements Extractor. Keywords are the interpreted values of the
// top interpretation's filled slots, in slot name order.
func (e *LexExtractor) Extract(ctx context.Context, query string) ([]string, error) {
	out, err := e.client.RecognizeText(ctx, &lexruntimev2.RecognizeTextInput{
		BotId:      aws.String(e.cfg.BotID),
		BotAliasId: aws.String(e.cfg.BotAliasID),
		LocaleId:   aws.String(e.cfg.LocaleID),
		SessionId:  aws.String(e.cfg.SessionID),
		Text:       aws.String(query),
	})
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	if len(out.Interpretations) == 0 || out.Interpretations[0].Intent == nil {
		return []string{}, nil
	}
	slots := out.Interpretations[0].Intent.Slots

	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	slices.Sort(names)

	keywords := []string{}
	seen := make(map[string]struct{})
	for _, name := range names {
		for _, v := range slotValues(slots[name]) {
			keywords = appendUnique(keywords, seen, v)
		}
	}
	return keywords, nil
}

// slotValues returns the lowercased interpreted values of a slot, including
// those of a multi-valued slot.
func slotValues(slot types.Slot) []string {
	var values []string
	if slot.Value != nil && slot.Value.InterpretedValue != nil {
		values = append(values, strings.ToLower(strings.TrimSpace(*slot.Value.InterpretedValue)))
	}
	for _, sub := range slot.Values {
		values = append(values, slotValues(sub)...)
	}
	return values
}
