package handler

// Route pattern constants for chi router registration.
const (
	RouteRoot     = "/"
	RoutePost     = "/post/{id}"
	RouteMakePost = "/make-post"
	RouteEdit     = "/edit/{id}"
	RouteDelete   = "/delete/{id}"
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteLogout   = "/logout"
	RouteAbout    = "/about"
	RouteContact  = "/contact"
	RouteHealth   = "/health"
	RouteStatic   = "/static/*"
)

// URL parameter names.
const paramID = "id"

// User-facing messages shared by several handlers.
const (
	msgInvalidCredentials = "Incorrect email or password."
	msgEmailTaken         = "An account with this email already exists."
	msgTitleTaken         = "A post with this title already exists."
	msgBodyEmpty          = "This field is required."
	msgSaveFailed         = "Something went wrong while saving. Please try again."
	msgInvalidForm        = "The submitted form could not be read."
)
