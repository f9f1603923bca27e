package usecase

import (
	"time"

	"MarketBrief/internal/domain/models"
	drepo "MarketBrief/internal/domain/repository"
	applogger "MarketBrief/pkg/logger"
)

// EvaluatedPrediction pairs a journal entry with its judged outcome.
type EvaluatedPrediction struct {
	Prediction *models.Prediction
	Outcome    models.Outcome
}

// PredictionEvaluator judges the day's journal entries against the live
// market snapshot at evaluation time. A call is a hit when the asset moved
// in the predicted direction by at least the entry's threshold, a miss when
// it did not, and pending when the asset has no usable quote.
type PredictionEvaluator struct {
	journal drepo.PredictionJournal
	logger  *applogger.Logger
}

func NewPredictionEvaluator(journal drepo.PredictionJournal, l *applogger.Logger) *PredictionEvaluator {
	return &PredictionEvaluator{journal: journal, logger: l}
}

// Evaluate lists the journal for day and judges each entry against market.
// Journal read failures degrade to an empty evaluation.
func (e *PredictionEvaluator) Evaluate(day time.Time, market map[string]models.AssetQuote) (models.PredictionEval, []EvaluatedPrediction) {
	preds, err := e.journal.List(day)
	if err != nil {
		e.logger.Warn("prediction journal unreadable",
			applogger.String("date", day.Format(models.DateLayout)),
			applogger.Error(err),
		)
		return models.PredictionEval{}, nil
	}
	return Judge(preds, market), judgeEach(preds, market)
}

// Judge computes the day's scorecard from raw entries and live quotes.
func Judge(preds []*models.Prediction, market map[string]models.AssetQuote) models.PredictionEval {
	var eval models.PredictionEval
	for _, p := range preds {
		eval.TotalTracked++
		switch judgeOne(p, market) {
		case models.OutcomeHit:
			eval.Hits++
		case models.OutcomeMiss:
			eval.Misses++
		default:
			eval.Pending++
		}
	}
	if eval.TotalTracked > 0 {
		eval.AccuracyPct = float64(eval.Hits) / float64(eval.TotalTracked) * 100.0
	}
	return eval
}

func judgeEach(preds []*models.Prediction, market map[string]models.AssetQuote) []EvaluatedPrediction {
	out := make([]EvaluatedPrediction, 0, len(preds))
	for _, p := range preds {
		out = append(out, EvaluatedPrediction{Prediction: p, Outcome: judgeOne(p, market)})
	}
	return out
}

func judgeOne(p *models.Prediction, market map[string]models.AssetQuote) models.Outcome {
	q, ok := market[p.Asset]
	if !ok || !q.Valid() {
		return models.OutcomePending
	}
	threshold := p.ThresholdPct
	if threshold < 0 {
		threshold = -threshold
	}
	switch p.Direction {
	case models.DirectionUp:
		if q.ChangePct >= threshold {
			return models.OutcomeHit
		}
	case models.DirectionDown:
		if q.ChangePct <= -threshold {
			return models.OutcomeHit
		}
	default:
		return models.OutcomePending
	}
	return models.OutcomeMiss
}
