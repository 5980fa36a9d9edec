package server

import (
	"encoding/json"
	"net/http"
)

func (s Server) writeJsonResponse(w http.ResponseWriter, response any, statusCode int) {
	if resp, err := json.Marshal(response); err != nil {
		s.Logger.Errorf("Error encoding response: %+v, err: %v", response, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	} else {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(statusCode)
		if _, err = w.Write(resp); err != nil {
			s.Logger.Errorf("Error writing JSON response: %s, err: %v", resp, err)
		}
	}
}

// eventHandler receives one pre-parsed chat update from the webhook relay.
func (s Server) eventHandler() http.HandlerFunc {
	type response struct {
		Success bool `json:"success"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		ev := Event{}
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			s.Logger.Debugf("eventHandler: Error decoding JSON, err: %v, TraceID: %s", err, tid)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if ev.UserID == 0 || ev.ChatID == 0 {
			s.Logger.Debugf("eventHandler: Missing user_id or chat_id, event: %+v, TraceID: %s", ev, tid)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if err := s.HandleEvent(r.Context(), ev); err != nil {
			s.Logger.Errorf("eventHandler: Error handling event: %+v, err: %v, TraceID: %s", ev, err, tid)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{Success: true}, http.StatusOK)
	}
}

func (s Server) dailyTopHandler() http.HandlerFunc {
	type response struct {
		Success    bool `json:"success"`
		Recipients int  `json:"recipients"`
		Sent       int  `json:"sent"`
		Failed     int  `json:"failed"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		l, err := s.DailyTopBroadcast(r.Context())
		if err != nil {
			s.Logger.Errorf("dailyTopHandler: Error running daily top broadcast, err: %v, TraceID: %s", err, tid)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{
			Success:    true,
			Recipients: l.Recipients,
			Sent:       l.Sent,
			Failed:     l.Failed,
		}, http.StatusOK)
	}
}

func (s Server) priceSweepHandler() http.HandlerFunc {
	type response struct {
		Success bool `json:"success"`
		Checked int  `json:"checked"`
		Sent    int  `json:"sent"`
		Failed  int  `json:"failed"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		l, err := s.PriceDropSweep(r.Context())
		if err != nil {
			s.Logger.Errorf("priceSweepHandler: Error running price sweep, err: %v, TraceID: %s", err, tid)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{
			Success: true,
			Checked: l.Recipients,
			Sent:    l.Sent,
			Failed:  l.Failed,
		}, http.StatusOK)
	}
}

func (s Server) healthHandler() http.HandlerFunc {
	type response struct {
		Status string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJsonResponse(w, response{Status: "ok"}, http.StatusOK)
	}
}
