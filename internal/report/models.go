// Package report persists traversal build reports to a relational database.
package report

import (
	"time"

	"github.com/bssrdf/boxtree/internal/stats"
	"github.com/bssrdf/boxtree/traversal"
)

// BuildReport is one persisted traversal build.
type BuildReport struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// TreeName labels the input tree, typically the file it was loaded from.
	TreeName string `gorm:"size:255;index" json:"tree_name"`

	Dimensions        int  `json:"dimensions"`
	NBoxes            int  `json:"nboxes"`
	NLevels           int  `json:"nlevels"`
	SourcesAreTargets bool `json:"sources_are_targets"`

	NSourceBoxes   int `json:"nsource_boxes"`
	NTargetBoxes   int `json:"ntarget_boxes"`
	NSourceParents int `json:"nsource_parent_boxes"`

	Workers     int   `json:"workers"`
	TotalMillis int64 `json:"total_millis"`

	Lists []ListReport `gorm:"foreignKey:BuildReportID;constraint:OnDelete:CASCADE" json:"lists"`
}

// ListReport is the per-list cardinality record of a build report.
type ListReport struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	BuildReportID uint `gorm:"index" json:"build_report_id"`

	Name       string  `gorm:"size:64" json:"name"`
	Keys       int     `json:"keys"`
	Total      int64   `json:"total"`
	MaxPerKey  int64   `json:"max_per_key"`
	MeanPerKey float64 `json:"mean_per_key"`
}

// NewBuildReport assembles a report from a built traversal and its summary.
func NewBuildReport(treeName string, info *traversal.Info, summary stats.Summary) *BuildReport {
	r := &BuildReport{
		TreeName:          treeName,
		Dimensions:        summary.Dimensions,
		NBoxes:            summary.NBoxes,
		NLevels:           summary.NLevels,
		SourcesAreTargets: summary.SourcesAreTargets,
		NSourceBoxes:      summary.NSourceBoxes,
		NTargetBoxes:      summary.NTargetBoxes,
		NSourceParents:    summary.NSourceParents,
		Workers:           info.Stats.Workers,
		TotalMillis:       info.Stats.TotalMillis,
	}

	for _, l := range summary.Lists {
		r.Lists = append(r.Lists, ListReport{
			Name:       l.Name,
			Keys:       l.Keys,
			Total:      l.Total,
			MaxPerKey:  l.MaxPerKey,
			MeanPerKey: l.MeanPerKey,
		})
	}

	return r
}
