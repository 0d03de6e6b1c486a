package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/coursecast/internal/inference"
	"github.com/JaimeStill/coursecast/internal/predictions"
	"github.com/JaimeStill/coursecast/pkg/pagination"
	"github.com/JaimeStill/coursecast/pkg/web"
)

type handler struct {
	sys          predictions.System
	pages        *web.TemplateSet
	categories   []string
	difficulties []string
	pagination   pagination.Config
	maxBodySize  int64
	logger       *slog.Logger
}

// formValues holds the submitted form fields verbatim so a rejected
// submission can be redisplayed as entered.
type formValues struct {
	Title             string
	Category          string
	Difficulty        string
	Price             string
	Reviews           string
	Rating            string
	Duration          string
	LectureNumbers    string
	InstrTotalReviews string
	InstrMeanRating   string
	InstrCourseCount  string
}

type formPage struct {
	Values       formValues
	Categories   []string
	Difficulties []string
	Error        string
}

type historyPage struct {
	Enabled bool
	Search  string
	Page    *pagination.PageResult[predictions.Prediction]
}

func (h *handler) form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, formValues{}, "")
}

func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, http.StatusBadRequest, formValues{}, "The form could not be read.")
		return
	}

	values := readForm(r)
	cmd, err := values.command()
	if err != nil {
		h.renderForm(w, http.StatusBadRequest, values, err.Error()+".")
		return
	}

	result, err := h.sys.Predict(r.Context(), cmd)
	if err != nil {
		status := predictions.MapHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("prediction failed", "error", err)
			h.render(w, status, errorView, "The prediction could not be completed.")
			return
		}
		h.renderForm(w, status, values, userMessage(err))
		return
	}

	h.render(w, http.StatusOK, resultView, result)
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	data := historyPage{Enabled: h.sys.HistoryEnabled()}
	if page.Search != nil {
		data.Search = *page.Search
	}

	if data.Enabled {
		result, err := h.sys.List(r.Context(), page, predictions.FiltersFromQuery(r.URL.Query()))
		if err != nil {
			h.logger.Error("history query failed", "error", err)
			h.render(w, predictions.MapHTTPStatus(err), errorView, "History is unavailable right now.")
			return
		}
		data.Page = result
	}

	h.render(w, http.StatusOK, historyView, data)
}

func (h *handler) renderForm(w http.ResponseWriter, status int, values formValues, msg string) {
	h.render(w, status, predictView, formPage{
		Values:       values,
		Categories:   h.categories,
		Difficulties: h.difficulties,
		Error:        msg,
	})
}

func (h *handler) render(w http.ResponseWriter, status int, view web.ViewDef, data any) {
	if err := h.pages.Page(w, status, layout, view, data); err != nil {
		h.logger.Error("render failed", "template", view.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func readForm(r *http.Request) formValues {
	get := func(key string) string { return strings.TrimSpace(r.PostForm.Get(key)) }
	return formValues{
		Title:             get("title"),
		Category:          get("category"),
		Difficulty:        get("difficulty"),
		Price:             get("price"),
		Reviews:           get("reviews"),
		Rating:            get("rating"),
		Duration:          get("duration"),
		LectureNumbers:    get("lecture_numbers"),
		InstrTotalReviews: get("instr_total_reviews"),
		InstrMeanRating:   get("instr_mean_rating"),
		InstrCourseCount:  get("instr_course_count"),
	}
}

// command converts the form into a predictions.Command. Blank numeric
// fields read as zero; blank instructor fields stay unset so the course
// values stand in for them.
func (v formValues) command() (predictions.Command, error) {
	cmd := predictions.Command{
		Title:      v.Title,
		Category:   v.Category,
		Difficulty: v.Difficulty,
	}

	var err error
	if cmd.Price, err = parseFloat("Price", v.Price); err != nil {
		return cmd, err
	}
	if cmd.Reviews, err = parseInt("Reviews", v.Reviews); err != nil {
		return cmd, err
	}
	if cmd.Rating, err = parseFloat("Rating", v.Rating); err != nil {
		return cmd, err
	}
	if cmd.Duration, err = parseFloat("Duration", v.Duration); err != nil {
		return cmd, err
	}
	if cmd.LectureNumbers, err = parseInt("Lectures", v.LectureNumbers); err != nil {
		return cmd, err
	}

	if v.InstrTotalReviews != "" {
		n, err := parseInt("Instructor total reviews", v.InstrTotalReviews)
		if err != nil {
			return cmd, err
		}
		cmd.InstrTotalReviews = &n
	}
	if v.InstrMeanRating != "" {
		f, err := parseFloat("Instructor mean rating", v.InstrMeanRating)
		if err != nil {
			return cmd, err
		}
		cmd.InstrMeanRating = &f
	}
	if v.InstrCourseCount != "" {
		n, err := parseInt("Instructor course count", v.InstrCourseCount)
		if err != nil {
			return cmd, err
		}
		cmd.InstrCourseCount = &n
	}

	return cmd, nil
}

func parseFloat(label, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", label)
	}
	return f, nil
}

func parseInt(label, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", label)
	}
	return n, nil
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, inference.ErrUnknownCategory):
		return "That category or difficulty is not one the model was trained on."
	case errors.Is(err, inference.ErrInvalidInput):
		_, detail, ok := strings.Cut(err.Error(), ": ")
		if !ok {
			return "Please check the values you entered."
		}
		return "Please check the values you entered: " + detail + "."
	}
	return "The prediction could not be completed."
}
