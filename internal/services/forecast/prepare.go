package forecast

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"RetailMind/internal/domain/models"
)

const day = 24 * time.Hour

// Prepare normalizes a raw daily series for model fitting: sorts points
// ascending, rejects duplicate dates, and fills calendar gaps between the
// first and last observation with zero-sales days. The input is not
// mutated.
func Prepare(series models.SalesSeries) (models.SalesSeries, error) {
	if series.Len() == 0 {
		return series, nil
	}

	pts := make([]models.SalesPoint, series.Len())
	copy(pts, series.Points)
	for i := range pts {
		pts[i].Date = pts[i].Date.UTC().Truncate(day)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

	for i := 1; i < len(pts); i++ {
		if pts[i].Date.Equal(pts[i-1].Date) {
			return models.SalesSeries{}, &models.ValidationError{
				Field:  "series",
				Reason: fmt.Sprintf("duplicate date %s for product %s", pts[i].Date.Format("2006-01-02"), series.ProductID),
			}
		}
	}

	filled := make([]models.SalesPoint, 0, len(pts))
	filled = append(filled, pts[0])
	for i := 1; i < len(pts); i++ {
		for d := pts[i-1].Date.Add(day); d.Before(pts[i].Date); d = d.Add(day) {
			filled = append(filled, models.SalesPoint{Date: d, Quantity: 0})
		}
		filled = append(filled, pts[i])
	}

	return models.SalesSeries{ProductID: series.ProductID, Points: filled}, nil
}

// Fingerprint returns a short stable hash of a series, used as part of
// forecast cache keys so stale entries expire as soon as new sales land.
func Fingerprint(series models.SalesSeries) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d", series.ProductID, series.Len())
	if n := series.Len(); n > 0 {
		first := series.Points[0]
		last := series.Points[n-1]
		fmt.Fprintf(h, "|%d|%d|%.4f|%.4f", first.Date.Unix(), last.Date.Unix(), first.Quantity, last.Quantity)
		total := 0.0
		for _, p := range series.Points {
			total += p.Quantity
		}
		fmt.Fprintf(h, "|%.4f", total)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
