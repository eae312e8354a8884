package utils

import (
	"net"
	"net/http"
	"path"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractIDFromParams retrieves a parameter value from the request context and removes file extensions like ".json".
func ExtractIDFromParams(r *http.Request, paramName string) string {
	params := httprouter.ParamsFromContext(r.Context())
	rawID := params.ByName(paramName)
	return strings.Split(rawID, ".json")[0]
}

// SplitExtension splits a route parameter such as "trends.svg" into its name and
// lower-cased extension without the dot.
func SplitExtension(param string) (string, string) {
	ext := path.Ext(param)
	return strings.TrimSuffix(param, ext), strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ClientIP returns the remote address without its port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
