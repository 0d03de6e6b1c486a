package predictions

import "github.com/JaimeStill/coursecast/pkg/openapi"

// Schemas returns the component schemas referenced by prediction operations.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"PredictCommand": {
			Type:     "object",
			Required: []string{"category", "difficulty"},
			Properties: map[string]*openapi.Schema{
				"title":               {Type: "string", Description: "Display title. Defaults to Custom Course."},
				"category":            {Type: "string", Example: "Tech"},
				"difficulty":          {Type: "string", Example: "Beginner"},
				"price":               {Type: "number", Minimum: openapi.Bound(0), Example: 499},
				"reviews":             {Type: "integer", Minimum: openapi.Bound(0), Example: 120},
				"rating":              {Type: "number", Minimum: openapi.Bound(0), Maximum: openapi.Bound(5), Example: 4.4},
				"duration":            {Type: "number", Minimum: openapi.Bound(0), Description: "Hours", Example: 6.5},
				"lecture_numbers":     {Type: "integer", Minimum: openapi.Bound(0), Example: 40},
				"instr_total_reviews": {Type: "integer", Minimum: openapi.Bound(0), Description: "Defaults to reviews"},
				"instr_mean_rating":   {Type: "number", Minimum: openapi.Bound(0), Maximum: openapi.Bound(5), Description: "Defaults to rating, or 4.3 when rating is 0"},
				"instr_course_count":  {Type: "integer", Minimum: openapi.Bound(1), Description: "Defaults to 1"},
			},
		},
		"Prediction": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid"},
				"course":        {Type: "object", Description: "Course attributes after defaults were applied"},
				"features":      {Type: "object", Description: "Engineered features"},
				"label":         {Type: "integer", Enum: []any{0, 1}},
				"probability":   {Type: "number", Minimum: openapi.Bound(0), Maximum: openapi.Bound(1)},
				"outcome":       {Type: "string", Enum: []any{OutcomeHigh, OutcomeLow}},
				"model_version": {Type: "string"},
				"created_at":    {Type: "string", Format: "date-time"},
			},
		},
		"PredictionResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"label":       {Type: "integer", Enum: []any{0, 1}},
				"probability": {Type: "number"},
				"outcome":     {Type: "string"},
				"stored":      {Type: "boolean"},
				"advice": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"summary":     {Type: "string"},
						"suggestions": {Type: "array", Items: &openapi.Schema{Type: "object"}},
						"source":      {Type: "string", Enum: []any{"model", "fallback"}},
						"model":       {Type: "string"},
					},
				},
			},
		},
		"PredictionPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Prediction")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}

var idParam = openapi.PathParam("id", "uuid", "Prediction ID")

var predictOp = &openapi.Operation{
	Summary:     "Score a course",
	Description: "Predicts whether a course will be highly successful and returns improvement advice.",
	RequestBody: openapi.RequestBodyJSON("PredictCommand", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Scored without history", "PredictionResult"),
		201: openapi.ResponseJSON("Scored and stored", "PredictionResult"),
		400: openapi.ResponseRef("BadRequest"),
		422: openapi.ResponseRef("Unprocessable"),
	},
}

var listOp = &openapi.Operation{
	Summary: "List prediction history",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)"),
		openapi.QueryParam("page_size", "integer", "Results per page"),
		openapi.QueryParam("search", "string", "Matches title or category"),
		openapi.QueryParam("sort", "string", "Sort fields, - prefix for descending"),
		openapi.QueryParam("category", "string", ""),
		openapi.QueryParam("difficulty", "string", ""),
		{Name: "label", In: "query", Schema: &openapi.Schema{Type: "integer", Enum: []any{0, 1}}},
		{Name: "price_bucket", In: "query", Schema: &openapi.Schema{Type: "string", Enum: []any{"free", "low", "medium", "high"}}},
		{Name: "duration_bucket", In: "query", Schema: &openapi.Schema{Type: "string", Enum: []any{"very_short", "short", "medium", "long"}}},
		openapi.QueryParam("model_version", "string", ""),
		openapi.QueryParam("min_probability", "number", "Inclusive lower bound"),
		openapi.QueryParam("max_probability", "number", "Inclusive upper bound"),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Page of predictions", "PredictionPage"),
		503: openapi.ResponseRef("Unavailable"),
	},
}

var searchOp = &openapi.Operation{
	Summary:     "Search prediction history",
	RequestBody: openapi.RequestBodyJSON("PageRequest", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Page of predictions", "PredictionPage"),
		400: openapi.ResponseRef("BadRequest"),
		503: openapi.ResponseRef("Unavailable"),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Find a prediction",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Prediction", "Prediction"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		503: openapi.ResponseRef("Unavailable"),
	},
}

var deleteOp = &openapi.Operation{
	Summary:    "Delete a prediction",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		204: openapi.NoContent("Deleted"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		503: openapi.ResponseRef("Unavailable"),
	},
}
