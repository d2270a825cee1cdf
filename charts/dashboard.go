package charts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chatlens/insights/consts"
	"github.com/chatlens/insights/normalize"
	"github.com/chatlens/insights/store"
	"github.com/go-echarts/go-echarts/v2/components"
)

// Chart IDs, in dashboard order
const (
	MessageTypesID        = "messageTypes"
	HourlyActivityID      = "hourlyActivity"
	DailyMessageTypesID   = "dailyMessageTypes"
	WeekdayDistributionID = "weekdayDistribution"
	MessageLengthID       = "messageLength"
	ConversationGapsID    = "conversationGaps"
	ResponseTimeID        = "responseTime"
	ChatHeatmapID         = "chatHeatmap"
	InteractionID         = "interaction"
	KeywordCloudID        = "keywordCloud"
	TopicsID              = "topics"
	SentimentID           = "sentiment"
	TagTrendsID           = "tagTrends"
)

type builder struct {
	id    string
	build func(*normalize.Payload) (Chart, error)
}

// The heatmap has no entry here; BuildDashboard places it after the
// response time chart.
var builders = []builder{
	{MessageTypesID, buildMessageTypesChart},
	{HourlyActivityID, buildHourlyChart},
	{DailyMessageTypesID, buildDailyChart},
	{WeekdayDistributionID, buildWeekdayChart},
	{MessageLengthID, buildMessageLengthChart},
	{ConversationGapsID, buildConversationGapsChart},
	{ResponseTimeID, buildResponseTimeChart},
	{InteractionID, buildInteractionChart},
	{KeywordCloudID, buildKeywordCloudChart},
	{TopicsID, buildTopicsChart},
	{SentimentID, buildSentimentChart},
	{TagTrendsID, buildTagTrendsChart},
}

// AllIDs lists every chart ID in dashboard order.
func AllIDs() []string {
	ids := make([]string, 0, len(builders)+1)
	for _, b := range builders {
		ids = append(ids, b.id)
		if b.id == ResponseTimeID {
			ids = append(ids, ChatHeatmapID)
		}
	}
	return ids
}

type NamedChart struct {
	ID    string
	Chart Chart
}

// Dashboard holds every chart that could be built for one contact.
type Dashboard struct {
	ContactID string
	Charts    []NamedChart
	Heatmap   *HeatmapView
	Summary   *normalize.ActivitySummary
}

// BuildDashboard builds each chart independently. A chart whose fields are
// missing or malformed is logged and left out; the others are unaffected.
func BuildDashboard(contactID string, p *normalize.Payload) Dashboard {
	d := Dashboard{ContactID: contactID}
	for _, b := range builders {
		chart, err := b.build(p)
		if err != nil {
			log.Printf("Skipping chart %s: %v", b.id, err)
		} else {
			d.Charts = append(d.Charts, NamedChart{ID: b.id, Chart: chart})
		}

		if b.id == ResponseTimeID {
			view, err := HeatmapViewOf(p)
			if err != nil {
				log.Printf("Skipping chart %s: %v", ChatHeatmapID, err)
				continue
			}
			d.Heatmap = &view
			d.Charts = append(d.Charts, NamedChart{ID: ChatHeatmapID, Chart: view.Chart()})
		}
	}

	if s, err := normalize.Summarize(p); err == nil {
		d.Summary = &s
	}
	return d
}

// LoadDashboard reads a contact's fragments and builds its dashboard.
func LoadDashboard(contactID string) (Dashboard, error) {
	payload, err := store.LoadPayload(contactID)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(contactID, payload), nil
}

// Chart returns the chart with the given ID, or nil.
func (d Dashboard) Chart(id string) Chart {
	for _, c := range d.Charts {
		if c.ID == id {
			return c.Chart
		}
	}
	return nil
}

func (d Dashboard) IDs() []string {
	ids := make([]string, len(d.Charts))
	for i, c := range d.Charts {
		ids[i] = c.ID
	}
	return ids
}

// Page renders all charts on a single HTML page.
func (d Dashboard) Page(title string) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	for _, c := range d.Charts {
		page.AddCharts(c.Chart)
	}
	return page
}

type heatmapState struct {
	AvailableYears []string `json:"availableYears"`
	SelectedYear   string   `json:"selectedYear"`
}

type exportedChart struct {
	ID      string         `json:"id"`
	Options map[string]any `json:"options"`
}

// Export is the document written by ExportChartsJSON.
type Export struct {
	Contact     string                     `json:"contact"`
	LastUpdated string                     `json:"lastUpdated"`
	Summary     *normalize.ActivitySummary `json:"summary,omitempty"`
	Heatmap     *heatmapState              `json:"heatmap"`
	Charts      []exportedChart            `json:"charts"`
}

// Export collects the option object of every chart.
func (d Dashboard) Export() Export {
	out := Export{
		Contact:     d.ContactID,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Summary:     d.Summary,
		Charts:      make([]exportedChart, 0, len(d.Charts)),
	}
	if d.Heatmap != nil {
		out.Heatmap = &heatmapState{
			AvailableYears: d.Heatmap.Partition.AvailableYears,
			SelectedYear:   d.Heatmap.Partition.SelectedYear,
		}
	}
	for _, c := range d.Charts {
		c.Chart.Validate()
		out.Charts = append(out.Charts, exportedChart{ID: c.ID, Options: c.Chart.JSON()})
	}
	return out
}

func ChartsFilePath(outputDir, contactID string) string {
	return filepath.Join(outputDir, fmt.Sprintf(consts.ChartsJSONFile, contactID))
}

// ExportChartsJSON generates a JSON file with all chart configurations of
// one contact
func ExportChartsJSON(contactID, outputDir string) error {
	d, err := LoadDashboard(contactID)
	if err != nil {
		return err
	}
	if len(d.Charts) == 0 {
		log.Printf("No data to export for %s", contactID)
		return nil
	}

	jsonData, err := json.MarshalIndent(d.Export(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, consts.DirPermissions); err != nil {
		return err
	}
	outputPath := ChartsFilePath(outputDir, contactID)
	if err := os.WriteFile(outputPath, jsonData, consts.FilePermissions); err != nil {
		return err
	}

	log.Printf("Exported charts to %s", outputPath)
	return nil
}

// ExportAll exports every listed contact. Contacts without fragments are
// skipped; other failures are collected and returned together.
func ExportAll(outputDir string) error {
	contacts, err := store.ListContacts()
	if err != nil {
		return err
	}
	var errs []error
	for _, c := range contacts {
		err := ExportChartsJSON(c.ID, outputDir)
		switch {
		case errors.Is(err, store.ErrContactNotFound):
			log.Printf("No fragments for contact %s", c.ID)
		case err != nil:
			errs = append(errs, fmt.Errorf("contact %s: %w", c.ID, err))
		}
	}
	return errors.Join(errs...)
}
