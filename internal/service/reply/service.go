package reply

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/propace/pace/internal/capability"
	"github.com/propace/pace/internal/collaborator/carter"
	"github.com/propace/pace/internal/collaborator/weather"
)

// Intent tags the chat collaborator attaches to utterances it classifies.
const (
	intentWeather = "Weather Request"
	intentTime    = "time-request"
	intentNews    = "news-request"
)

// Placeholder tokens the collaborator embeds in intent-tagged reply text.
const (
	tokenCity      = "$city$"
	tokenWeather   = "$weather$"
	tokenRealTemp  = "$real_temp$"
	tokenWindChill = "$wind_chill$"
	tokenTime      = "$time"
)

// ChatClient is the chat-completion collaborator contract.
type ChatClient interface {
	Complete(ctx context.Context, text string) (carter.Completion, error)
	Opener(ctx context.Context) (string, error)
}

// WeatherClient is the current-conditions collaborator contract.
type WeatherClient interface {
	Current(ctx context.Context) (weather.Observation, error)
}

// NewsClient is the headline feed collaborator contract.
type NewsClient interface {
	Headlines(ctx context.Context) ([]string, error)
}

// Service turns raw user text into a final reply. Each request is stateless;
// no conversation memory is kept between calls.
type Service struct {
	chat    ChatClient
	weather WeatherClient
	news    NewsClient
	caps    capability.Capabilities
	now     func() time.Time
}

// NewService wires the collaborators behind the generator. The capability
// snapshot decides which enrichments are attempted at all.
func NewService(chat ChatClient, wx WeatherClient, news NewsClient, caps capability.Capabilities) *Service {
	return &Service{
		chat:    chat,
		weather: wx,
		news:    news,
		caps:    caps,
		now:     time.Now,
	}
}

// Generate calls the chat collaborator and applies the enrichment its intent
// tag selects. Collaborator failure on the chat call itself is returned to
// the caller; enrichment failure degrades to the base text with its
// placeholders intact. That degradation is policy, not an accident: partial
// data must never crash or block a reply.
func (s *Service) Generate(ctx context.Context, text string) (string, error) {
	completion, err := s.chat.Complete(ctx, text)
	if err != nil {
		return "", err
	}

	switch completion.Intent {
	case intentWeather:
		return s.enrichWeather(ctx, completion.Text), nil
	case intentTime:
		return s.enrichTime(completion.Text), nil
	case intentNews:
		return s.enrichNews(ctx, completion.Text), nil
	default:
		return completion.Text, nil
	}
}

// GenerateOpener fetches a one-shot greeting sentence. No substitution.
func (s *Service) GenerateOpener(ctx context.Context) (string, error) {
	return s.chat.Opener(ctx)
}

func (s *Service) enrichWeather(ctx context.Context, base string) string {
	if s.weather == nil || !s.caps.Weather {
		log.Printf("[reply] weather intent but collaborator unavailable, leaving placeholders")
		return base
	}

	obs, err := s.weather.Current(ctx)
	if err != nil {
		log.Printf("[reply] weather lookup failed: %v", err)
		return base
	}

	replacer := strings.NewReplacer(
		tokenCity, obs.City,
		tokenWeather, obs.Description,
		tokenRealTemp, strconv.Itoa(int(obs.Temp)),
		tokenWindChill, strconv.Itoa(int(obs.FeelsLike)),
	)
	return replacer.Replace(base)
}

func (s *Service) enrichTime(base string) string {
	return strings.ReplaceAll(base, tokenTime, s.now().Format("03:04 PM"))
}

func (s *Service) enrichNews(ctx context.Context, base string) string {
	if s.news == nil || !s.caps.News {
		log.Printf("[reply] news intent but collaborator unavailable, keeping base reply")
		return base
	}

	titles, err := s.news.Headlines(ctx)
	if err != nil {
		log.Printf("[reply] news lookup failed: %v", err)
		return base
	}
	if len(titles) == 0 {
		return base
	}

	var builder strings.Builder
	for _, title := range titles {
		builder.WriteString(title)
		builder.WriteString("\n")
	}
	return builder.String()
}
