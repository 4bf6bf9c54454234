package utils

import (
	"github.com/keithshino/one-on-one-supporter/internal/models"
)

// MonthBucket groups logs recorded in the same calendar month.
type MonthBucket struct {
	Month string       `json:"month"` // "2006-01"
	Logs  []models.Log `json:"logs"`
}

// BucketByMonth groups logs by calendar month, preserving the input order
// both across buckets and within each bucket. Input is expected date
// descending, so buckets come out newest first.
func BucketByMonth(logs []models.Log) []MonthBucket {
	var buckets []MonthBucket
	index := map[string]int{}

	for _, l := range logs {
		key := l.Date.Format("2006-01")
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, MonthBucket{Month: key})
		}
		buckets[i].Logs = append(buckets[i].Logs, l)
	}

	return buckets
}
