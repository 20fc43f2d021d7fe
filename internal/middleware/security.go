package middleware

// SecurityHeaders is the set of headers applied to API responses.
type SecurityHeaders struct {
	ContentSecurityPolicy string
	XContentTypeOptions   string
	XFrameOptions         string
	XXSSProtection        string
	ReferrerPolicy        string
	PermissionsPolicy     string
	CacheControl          string
	Pragma                string
}

// APISecurityHeaders returns the strict header set for JSON API routes.
func APISecurityHeaders() SecurityHeaders {
	return SecurityHeaders{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		XContentTypeOptions:   "nosniff",
		XFrameOptions:         "DENY",
		XXSSProtection:        "1; mode=block",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=()",
		CacheControl:          "no-store",
		Pragma:                "no-cache",
	}
}
