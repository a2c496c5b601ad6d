package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const ratedPage = `<!DOCTYPE html>
<html><body><div id="main-container">
<table class="dl-table mt-2"><tbody>
<tr><th class="no-break">Rank</th><td>1234th</td></tr>
<tr><th class="no-break">Rating</th><td><img src="/public/img/icon/crown.png"> <span class="user-%s">%d</span></td></tr>
<tr><th class="no-break">Highest Rating</th><td><span class="user-%s">%d</span></td></tr>
</tbody></table></div></body></html>`

const unratedPage = `<!DOCTYPE html>
<html><body><div id="main-container">
<p>This user has not competed in a rated contest yet.</p>
</div></body></html>`

const driftedPage = `<!DOCTYPE html>
<html><body><div class="profile"><dl><dt>Rating</dt><dd>1850</dd></dl></div></body></html>`

// newRouter escolhe a página pelo handle:
//
//	unrated*  página com o aviso de "sem contest"
//	drift*    layout diferente (sem a tabela)
//	missing*  404
//	r<N>_*    rating N (ex.: r2400_tourist)
//	outros    rating 1850
func newRouter(logger log.FieldLogger) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/users/{handle}", func(w http.ResponseWriter, req *http.Request) {
		handle := mux.Vars(req)["handle"]
		logger.WithFields(log.Fields{
			"handle":      handle,
			"contestType": req.URL.Query().Get("contestType"),
		}).Info("profile requested")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch {
		case strings.HasPrefix(handle, "missing"):
			http.NotFound(w, req)
		case strings.HasPrefix(handle, "unrated"):
			_, _ = w.Write([]byte(unratedPage))
		case strings.HasPrefix(handle, "drift"):
			_, _ = w.Write([]byte(driftedPage))
		default:
			rating := ratingOf(handle)
			color := colorClass(rating)
			_, _ = fmt.Fprintf(w, ratedPage, color, rating, color, rating)
		}
	}).Methods(http.MethodGet)
	return r
}

func ratingOf(handle string) uint64 {
	if strings.HasPrefix(handle, "r") {
		if n, _, ok := strings.Cut(handle[1:], "_"); ok {
			if v, err := strconv.ParseUint(n, 10, 64); err == nil {
				return v
			}
		}
	}
	return 1850
}

func colorClass(r uint64) string {
	switch {
	case r >= 2800:
		return "red"
	case r >= 2400:
		return "orange"
	case r >= 2000:
		return "yellow"
	case r >= 1600:
		return "blue"
	case r >= 1200:
		return "cyan"
	case r >= 800:
		return "green"
	case r >= 400:
		return "brown"
	default:
		return "gray"
	}
}
