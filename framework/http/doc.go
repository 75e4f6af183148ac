// Package http provides Laravel-style request and response helpers around
// net/http.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	// Validation input: JSON objects, urlencoded and multipart forms
//	params, err := req.Params()  // validation.Params
//
//	name := req.Input("name", "default")
//	page := req.Query("page", "1")
//	form := req.RouteParam("form")
//	req.IsJSON()  // Accept or Content-Type is application/json
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.Success(data)              // 200 {"data": ...}
//	res.Error(400, "bad input")    // {"message": "bad input"}
//	res.NotFound()                 // 404 {"message": "Not found."}
//	res.ServerError()              // 500 {"message": "Server Error."}
//	res.ValidationError(result)    // 422 {"message": ..., "errors": {"email_required": "..."}}
//
//	res.RedirectTo("/contact")           // 302
//	res.RedirectBack(r, "/contact")      // 302 to Referer
//
// # ViewEngine
//
//	views := gohttp.NewViewEngine("resources/views", ".html")
//	views.View(w, "contact", page)
package http
