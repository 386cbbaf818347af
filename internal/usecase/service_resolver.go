package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"reservation-bot/internal/data/entity"
	"reservation-bot/internal/data/repository"
	"reservation-bot/pkg/metrics"

	"go.uber.org/zap"
)

const (
	ServiceHaircut      = "Haircut"
	ServiceBeardTrim    = "Beard Trim"
	ServiceHairColoring = "Hair Coloring"
	ServiceHaircutBeard = "Haircut and Beard"
)

// serviceKeywords lists lowercase English, French and Arabic keywords per
// canonical service name.
var serviceKeywords = []struct {
	canonical string
	keywords  []string
}{
	{ServiceHaircut, []string{"haircut", "cut", "coupe", "قص شعر", "قصة شعر", "حلاقة شعر", "حلاقة"}},
	{ServiceBeardTrim, []string{"beard", "barbe", "shave", "ذقن", "تهذيب ذقن", "حلاقة دقن"}},
	{ServiceHairColoring, []string{"color", "colour", "dye", "صبغ", "صبغة", "صبغ شعر"}},
}

// MatchServiceKeywords resolves text against the static keyword table.
// Haircut together with Beard Trim becomes the combined service; any other
// multi-match goes to the name with the longest matching keyword, ties
// broken alphabetically. ok is false when nothing matched.
func MatchServiceKeywords(text string) (string, bool) {
	lower := strings.ToLower(text)

	longest := make(map[string]int)
	for _, group := range serviceKeywords {
		for _, keyword := range group.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			if n := len([]rune(keyword)); n > longest[group.canonical] {
				longest[group.canonical] = n
			}
		}
	}
	if len(longest) == 0 {
		return "", false
	}

	_, haircut := longest[ServiceHaircut]
	_, beard := longest[ServiceBeardTrim]
	if haircut && beard {
		return ServiceHaircutBeard, true
	}

	names := make([]string, 0, len(longest))
	for name := range longest {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if longest[names[i]] != longest[names[j]] {
			return longest[names[i]] > longest[names[j]]
		}
		return names[i] < names[j]
	})
	return names[0], true
}

// ServiceResolver maps a customer's free-text service request to a
// canonical name. It never fails; the trimmed text is the last resort.
type ServiceResolver interface {
	Resolve(ctx context.Context, business *entity.Business, raw string) string
}

type serviceResolver struct {
	services   repository.ServiceRepository
	classifier Classifier
	metrics    *metrics.BotMetrics
	log        *zap.Logger
}

// NewServiceResolver builds a resolver. classifier and m may be nil.
func NewServiceResolver(services repository.ServiceRepository, classifier Classifier, m *metrics.BotMetrics, log *zap.Logger) ServiceResolver {
	return &serviceResolver{
		services:   services,
		classifier: classifier,
		metrics:    m,
		log:        log.With(zap.String("service", "service_resolver")),
	}
}

func (r *serviceResolver) Resolve(ctx context.Context, business *entity.Business, raw string) string {
	text := strings.TrimSpace(raw)
	if name, ok := MatchServiceKeywords(text); ok {
		return name
	}

	if r.classifier != nil && text != "" {
		if name, err := r.classify(ctx, business, text); err != nil {
			if errors.Is(err, ErrNotConfigured) {
				r.log.Debug("Classifier skipped", zap.Error(err), zap.String("business_id", business.ID.String()))
			} else {
				r.log.Warn("Classifier failed", zap.Error(err), zap.String("business_id", business.ID.String()))
				r.metrics.ObserveCollaboratorFailure("classifier")
			}
		} else if name != "" {
			return name
		}
	}

	return text
}

func (r *serviceResolver) classify(ctx context.Context, business *entity.Business, text string) (string, error) {
	names, err := r.services.ListNames(ctx, business.ID)
	if err != nil {
		return "", repoErr("list service names", err)
	}
	if len(names) == 0 {
		return "", ErrNotConfigured
	}

	name, err := r.classifier.PickService(ctx, business, names, text)
	if err != nil {
		return "", collaboratorErr("pick service", err)
	}
	return strings.TrimSpace(name), nil
}
