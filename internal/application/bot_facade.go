package application

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"telegram-gita-bot/internal/domain"
	"telegram-gita-bot/internal/domain/model"
)

// BotFacade turns bot commands into reply texts. It validates raw command
// arguments, calls the use cases and renders exactly one reply per outcome,
// so the Telegram adapter only has to deliver what it gets back.
type BotFacade struct {
	ScheduleUC ScheduleUseCaseIface
	VerseUC    VerseUseCaseIface
	texts      Texts
	log        *zerolog.Logger
}

func NewBotFacade(scheduleUC ScheduleUseCaseIface, verseUC VerseUseCaseIface, texts Texts, logger *zerolog.Logger) *BotFacade {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &BotFacade{
		ScheduleUC: scheduleUC,
		VerseUC:    verseUC,
		texts:      texts,
		log:        logger,
	}
}

// Texts exposes the facade's renderer to the transport layer.
func (b *BotFacade) Texts() Texts { return b.texts }

// HandleStart returns the greeting with the command list.
func (b *BotFacade) HandleStart(ctx context.Context) string {
	return b.texts.T("welcome_message")
}

func (b *BotFacade) HandleHelp(ctx context.Context) string {
	return b.texts.T("help_message")
}

// HandleDaily validates "/daily <order> <time>" and registers the preference.
// Validation failures are answered without touching the preference service.
func (b *BotFacade) HandleDaily(ctx context.Context, username string, chatID int64, args []string) string {
	req, err := model.ParseScheduleArgs(username, chatID, args)
	switch {
	case errors.Is(err, domain.ErrMissingArguments):
		return b.texts.T("usage_daily")
	case errors.Is(err, domain.ErrInvalidOrder):
		return b.texts.T("error_invalid_order")
	case errors.Is(err, domain.ErrInvalidTime):
		return b.texts.T("error_invalid_time")
	case err != nil:
		b.log.Warn().Err(err).Msg("daily request rejected")
		return b.texts.T("error_generic")
	}

	outcome := b.ScheduleUC.Reconcile(ctx, req)
	return b.texts.T("daily_"+outcome.String(), req.UserType.String(), req.Time)
}

// VerseReply is everything the transport needs to answer "/verse".
// When Audio is false only Text is sent.
type VerseReply struct {
	Text     string
	Markdown bool

	Audio        bool
	AudioPath    string
	AudioCaption string
	// AudioMissing is sent instead of the audio when no narration was fetched.
	AudioMissing string

	release func()
}

// Release frees the narration file. Safe to call more than once.
func (r *VerseReply) Release() {
	if r != nil && r.release != nil {
		r.release()
		r.release = nil
	}
}

// HandleVerse validates "/verse <chapter> <verse>" and fetches the verse.
func (b *BotFacade) HandleVerse(ctx context.Context, args []string) *VerseReply {
	if len(args) != 2 {
		return &VerseReply{Text: b.texts.T("usage_verse")}
	}
	ref, err := model.ParseVerseRef(args[0], args[1])
	if err != nil {
		if !isInteger(args[0]) || !isInteger(args[1]) {
			return &VerseReply{Text: b.texts.T("usage_verse")}
		}
		return &VerseReply{Text: b.texts.T("error_invalid_verse")}
	}

	res, err := b.VerseUC.Get(ctx, ref)
	if err != nil {
		b.log.Error().Err(err).Str("verse", ref.String()).Msg("verse lookup failed")
		return &VerseReply{Text: b.texts.T("error_verse_fetch", ref.Chapter, ref.Verse)}
	}

	reply := &VerseReply{
		Text:     b.formatVerse(res.Verse),
		Markdown: true,
		Audio:    true,
		release:  res.Release,
	}
	if res.AudioPath != "" {
		reply.AudioPath = res.AudioPath
		reply.AudioCaption = b.texts.T("audio_caption", ref.Chapter, ref.Verse)
	} else {
		reply.AudioMissing = b.texts.T("audio_unavailable", ref.Chapter, ref.Verse)
	}
	return reply
}

func (b *BotFacade) formatVerse(v *model.Verse) string {
	sections := []struct {
		heading string
		body    string
		bold    bool
	}{
		{b.texts.T("verse_heading_original"), v.OriginalVerse, true},
		{b.texts.T("verse_heading_transliteration"), v.Transliteration, false},
		{b.texts.T("verse_heading_translation"), v.Translation, false},
		{b.texts.T("verse_heading_commentary"), v.Commentary, false},
		{b.texts.T("verse_heading_word_meanings"), v.WordMeanings, false},
	}

	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("*" + s.heading + "*\n")
		body := strings.TrimSpace(s.body)
		if s.bold && body != "" {
			body = "*" + body + "*"
		}
		sb.WriteString(body)
	}
	return sb.String()
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}
