package services

import (
	"fmt"
	"strings"
	"time"

	"ad-panel/internal/config"
	"ad-panel/internal/models"
)

// Default per-region sequence capacities for the legacy fragment. They pad
// the declared array size, never cap the ad count. Overridable via the
// max_ads_* settings.
var defaultRegionCapacity = map[string]int{
	models.RegionYellow:      20,
	models.RegionWhite:       145,
	models.RegionLightYellow: 53,
	models.RegionCyan:        67,
}

// Setting keys holding the per-region capacity overrides.
var regionCapacityKey = map[string]string{
	models.RegionYellow:      "max_ads_yellow",
	models.RegionWhite:       "max_ads_white",
	models.RegionLightYellow: "max_ads_light_yellow",
	models.RegionCyan:        "max_ads_cyan",
}

// Row background per region; hover color is the same for all regions.
var regionBgColor = map[string]string{
	models.RegionYellow:      "#FFFF00",
	models.RegionWhite:       "#FFFFFF",
	models.RegionLightYellow: "#FFFFCC",
	models.RegionCyan:        "#CCFFFF",
}

const hoverColor = "#B0E0E6"

// RenderService produces the two read-only output shapes of the ad list:
// the paginated JSON payload and the legacy inline script fragment.
type RenderService struct {
	cfg      *config.Config
	settings *SettingsService
}

func NewRenderService(cfg *config.Config) *RenderService {
	return &RenderService{
		cfg:      cfg,
		settings: NewSettingsService(cfg),
	}
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type AdListing struct {
	Ads        []models.Ad `json:"ads"`
	Pagination Pagination  `json:"pagination"`
}

// displayOrder orders active ads by region in the fixed display order, then
// sort weight descending, then creation time ascending.
const displayOrder = "CASE region WHEN 'yellow' THEN 0 WHEN 'white' THEN 1 WHEN 'lightYellow' THEN 2 WHEN 'cyan' THEN 3 ELSE 4 END, sort_weight DESC, created_at ASC"

// ActiveListing returns one page of active ads in display order.
func (s *RenderService) ActiveListing(page, limit int) (*AdListing, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := models.DB.Model(&models.Ad{}).Where("status = ?", models.AdStatusActive)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var ads []models.Ad
	err := query.
		Order(displayOrder).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&ads).Error
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &AdListing{
		Ads: ads,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// FrontendFragment regenerates the inline script embedded by the legacy
// public page. For each non-empty region it declares a shuffle array sized
// max(capacity, count), fills one row string per ad, then appends the
// client-side shuffle and write directives. Regions without active ads are
// omitted entirely.
func (s *RenderService) FrontendFragment() (string, error) {
	var ads []models.Ad
	err := models.DB.
		Where("status = ?", models.AdStatusActive).
		Order(displayOrder).
		Find(&ads).Error
	if err != nil {
		return "", err
	}

	byRegion := make(map[string][]models.Ad, 4)
	for _, ad := range ads {
		byRegion[ad.Region] = append(byRegion[ad.Region], ad)
	}

	var b strings.Builder
	for _, region := range models.Regions() {
		regionAds := byRegion[region]
		if len(regionAds) == 0 {
			continue
		}

		capacity := s.settings.GetInt(regionCapacityKey[region], defaultRegionCapacity[region])
		size := capacity
		if len(regionAds) > size {
			size = len(regionAds)
		}

		name := "mz_" + region
		fmt.Fprintf(&b, "var %s=new Array(%d);\n", name, size)
		for i, ad := range regionAds {
			fmt.Fprintf(&b, "%s[%d]='%s';\n", name, i, adRow(&ad, regionBgColor[region]))
		}
		fmt.Fprintf(&b, "%s.sort(function(){return Math.random()-0.5;});\n", name)
		fmt.Fprintf(&b, "for(var i=0;i<%s.length;i++){if(%s[i])document.write(%s[i]);}\n", name, name, name)
	}

	return b.String(), nil
}

// adRow formats one legacy table row for embedding inside a single-quoted
// script string.
func adRow(ad *models.Ad, bgColor string) string {
	title := escapeJSString(ad.Title)
	content := escapeJSString(ad.Content)
	experience := escapeJSString(ad.Experience)
	version := escapeJSString(ad.Version)
	link := escapeJSString(ad.Link)
	date := startLabel(ad)

	return fmt.Sprintf(
		`<TR bgColor=%s onmouseover="this.bgColor=\'%s\'" onmouseout="this.bgColor=\'%s\'">`+
			`<TD>&nbsp;<a href="%s" target="_blank"><font color="red">%s</font></a></TD>`+
			`<TD align="center"><font color="red">%s</font></TD>`+
			`<TD><font color="red">&nbsp;%s</font></TD>`+
			`<TD align="center"><font color="red">%s</font></TD>`+
			`<TD align="center"><font color="red">%s</font></TD>`+
			`<TD align="center"><a href="%s" target="_blank"><font color="red">点击查看</font></a></TD>`+
			`</TR>`,
		bgColor, hoverColor, bgColor,
		link, title, date, content, experience, version, link,
	)
}

// startLabel derives the display date column: the ad's start date formatted
// the legacy way, or the literal placeholder when no start date is set.
func startLabel(ad *models.Ad) string {
	if ad.StartDate.IsZero() {
		return "今日新区"
	}
	return fmt.Sprintf("%d月%d日", int(ad.StartDate.Month()), ad.StartDate.Day())
}

// escapeJSString makes a value safe inside a single-quoted script literal
// without altering clean legacy inputs.
func escapeJSString(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		"\r", " ",
		"\n", " ",
		"</", `<\/`,
	)
	return r.Replace(v)
}

// ClassifiedAd decorates an ad with its computed life-cycle fields for the
// admin dashboard.
type ClassifiedAd struct {
	models.Ad
	State         AdState `json:"state"`
	RemainingDays int     `json:"remaining_days"`
}

// ClassifyAll computes state and remaining days for each ad using the
// configured warning window.
func (s *RenderService) ClassifyAll(ads []models.Ad, now time.Time) []ClassifiedAd {
	warningDays := s.settings.GetInt("expiry_warning_days", 7)
	out := make([]ClassifiedAd, 0, len(ads))
	for _, ad := range ads {
		out = append(out, ClassifiedAd{
			Ad:            ad,
			State:         ClassifyAd(&ad, now, warningDays),
			RemainingDays: ad.RemainingDays(now),
		})
	}
	return out
}
