package card

import (
	"fmt"

	"linkpage-backend/internal/models"
	"linkpage-backend/pkg/validator"
)

// DefaultRenderer builds views straight from the item payloads. It doubles
// as the fallback for types without a dedicated renderer.
type DefaultRenderer struct{}

func (DefaultRenderer) Summary(item models.Item) View {
	switch data := item.Data.(type) {
	case *models.TextData:
		return View{
			Title:       validator.SanitizeString(data.Title),
			Description: validator.SanitizeString(truncate(data.Text, 140)),
		}
	case *models.LinkData:
		return View{
			Title:       validator.SanitizeString(data.Title),
			Description: validator.SanitizeString(data.SiteName),
			ImageURL:    data.IconURL,
			ActionURL:   data.URL,
		}
	case *models.SectionData:
		return View{Title: validator.SanitizeString(data.Headline)}
	case *models.MediaData:
		return View{
			Title:    validator.SanitizeString(data.Caption),
			ImageURL: data.MediaURL,
		}
	case *models.MapData:
		return View{
			Title:       validator.SanitizeString(data.Caption),
			Description: fmt.Sprintf("%.5f, %.5f", data.Lat, data.Lng),
		}
	}
	return View{Title: string(item.Type)}
}

func (DefaultRenderer) Expanded(item models.Item) View {
	switch data := item.Data.(type) {
	case *models.TextData:
		return View{
			Title: validator.SanitizeString(data.Title),
			Body:  validator.SanitizeHTML(data.Text),
		}
	case *models.LinkData:
		return View{
			Title:       validator.SanitizeString(data.Title),
			Description: validator.SanitizeString(data.Description),
			ImageURL:    data.ImageURL,
			ActionLabel: "Open",
			ActionURL:   data.URL,
		}
	case *models.SectionData:
		return View{Title: validator.SanitizeString(data.Headline)}
	case *models.MediaData:
		return View{
			Title:       validator.SanitizeString(data.Caption),
			ImageURL:    data.MediaURL,
			ActionLabel: "Open",
			ActionURL:   data.URL,
		}
	case *models.MapData:
		return View{
			Title:       validator.SanitizeString(data.Caption),
			Description: fmt.Sprintf("%.5f, %.5f (zoom %d)", data.Lat, data.Lng, data.Zoom),
			ActionLabel: "Open map",
			ActionURL:   data.URL,
		}
	}
	return View{Title: string(item.Type)}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
