package api

import (
	"fmt"
	"log"
	"net"
	"net/http"

	"assistant/internal/common"
	"assistant/internal/core"
	"assistant/internal/session"
	"assistant/internal/user"
)

// Handler exposes the assistant API over HTTP. All routes accept form
// encoded input and answer with the {type, text, data} envelope.
type Handler struct {
	users    user.UserService
	sessions *session.Store
	core     core.Processor
}

func NewHandler(users user.UserService, sessions *session.Store, processor core.Processor) *Handler {
	return &Handler{
		users:    users,
		sessions: sessions,
		core:     processor,
	}
}

// NewUser creates a new user account
func (h *Handler) NewUser(w http.ResponseWriter, r *http.Request) {
	log.Println("API /users/new")
	if err := r.ParseForm(); err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error("Invalid input"))
		return
	}

	required := []string{"username", "password", "first_name", "last_name", "email", "city", "country", "state"}
	values := make(map[string]string, len(required))
	for _, name := range required {
		v := r.Form.Get(name)
		if v == "" {
			common.WriteJSON(w, http.StatusOK, common.Error(
				"Couldn't find required data in request. To create a new user, a username, password, "+
					"first name, last name, and email is required"))
			return
		}
		values[name] = v
	}

	reg := user.Registration{
		Username:  values["username"],
		Password:  values["password"],
		FirstName: values["first_name"],
		LastName:  values["last_name"],
		Email:     values["email"],
		City:      values["city"],
		State:     values["state"],
		Country:   values["country"],
		SignupIP:  remoteIP(r),
	}

	newUser, token, err := h.users.Register(r.Context(), reg)
	if err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error(err.Error()))
		return
	}

	resp := common.Success(fmt.Sprintf("Thank you %s, you are now registered", newUser.FirstName))
	resp.Data["user_token"] = token
	common.WriteJSON(w, http.StatusOK, resp)
}

// Settings updates the authenticated user's settings. Every form field other
// than the credentials is treated as a setting to change.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	log.Println("API /settings")
	if err := r.ParseForm(); err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error("Invalid input"))
		return
	}

	username := r.Form.Get("username")
	password := r.Form.Get("password")
	if username == "" || password == "" {
		common.WriteJSON(w, http.StatusOK, common.Error("Couldn't find username or password in request data"))
		return
	}
	if !common.CheckFields(username, password) {
		common.WriteJSON(w, http.StatusOK, common.Error("Invalid input"))
		return
	}

	settings := make(map[string]string)
	for name := range r.Form {
		if name == "username" || name == "password" {
			continue
		}
		settings[name] = r.Form.Get(name)
	}

	if err := h.users.UpdateSettings(r.Context(), username, password, settings); err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error(err.Error()))
		return
	}

	common.WriteJSON(w, http.StatusOK, common.Success("Updated settings"))
}

// StartSession authenticates the user and issues a new session id
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	log.Println("API /sessions/start")

	var username, password, client string
	switch r.Method {
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			common.WriteJSON(w, http.StatusOK, common.Error("Invalid input"))
			return
		}
		username = r.Form.Get("username")
		password = r.Form.Get("password")
		client = "API-POST"
	default:
		username = r.URL.Query().Get("username")
		password = r.URL.Query().Get("password")
		client = "API-GET"
	}

	if username == "" || password == "" {
		common.WriteJSON(w, http.StatusOK, common.Error("Couldn't find username and password in request data"))
		return
	}
	if !common.CheckFields(username, password) {
		common.WriteJSON(w, http.StatusOK, common.Error("Invalid input"))
		return
	}

	authed, err := h.users.Authenticate(r.Context(), username, password)
	if err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error(err.Error()))
		return
	}

	sess := h.sessions.Start(authed.Username, client)
	log.Printf("Started session %s for user %s", sess.ID, authed.Username)

	resp := common.Success("Authentication successful")
	resp.Data["session_id"] = sess.ID
	common.WriteJSON(w, http.StatusOK, resp)
}

// GetSessions lists the active session ids belonging to the user
func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	log.Println("API /sessions/list")
	if err := r.ParseForm(); err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error("Invalid input"))
		return
	}

	username := r.Form.Get("username")
	password := r.Form.Get("password")
	if username == "" || password == "" {
		common.WriteJSON(w, http.StatusOK, common.Error("Couldn't find username and password in request"))
		return
	}

	if _, err := h.users.Authenticate(r.Context(), username, password); err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error(err.Error()))
		return
	}

	resp := common.Success("Fetched active sessions")
	resp.Data["sessions"] = h.sessions.ByUser(username)
	common.WriteJSON(w, http.StatusOK, resp)
}

// EndSession tears down a session
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	log.Println("API /sessions/end")
	if err := r.ParseForm(); err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error("Invalid input"))
		return
	}

	sessionID := r.Form.Get("session_id")
	if sessionID == "" {
		common.WriteJSON(w, http.StatusOK, common.Error("Couldn't find session id in request data"))
		return
	}

	if !h.sessions.End(sessionID) {
		common.WriteJSON(w, http.StatusOK, common.Error(fmt.Sprintf("Session id %s wasn't found", sessionID)))
		return
	}

	common.WriteJSON(w, http.StatusOK, common.Success("Ended session"))
}

// CheckSession reports whether a session id is valid
func (h *Handler) CheckSession(w http.ResponseWriter, r *http.Request) {
	log.Println("API /sessions/check")
	if err := r.ParseForm(); err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error("Invalid input"))
		return
	}

	sessionID := r.Form.Get("session_id")
	if sessionID == "" {
		resp := common.Error("Couldn't find session_id in request data")
		resp.Data["valid"] = false
		common.WriteJSON(w, http.StatusOK, resp)
		return
	}

	valid := h.sessions.Check(sessionID)
	text := fmt.Sprintf("Session id %s is valid", sessionID)
	if !valid {
		text = fmt.Sprintf("Session id %s is invalid", sessionID)
	}

	resp := common.Success(text)
	resp.Data["valid"] = valid
	common.WriteJSON(w, http.StatusOK, resp)
}

// Command relays a user command into the core worker subsystem. The command
// gets a session scoped id, is forwarded to the core, and is queued on the
// session; the core's response envelope is returned as-is.
func (h *Handler) Command(w http.ResponseWriter, r *http.Request) {
	log.Println("API /command")
	if err := r.ParseForm(); err != nil {
		common.WriteJSON(w, http.StatusOK, common.Error("Invalid input"))
		return
	}

	command := r.Form.Get("command")
	sessionID := r.Form.Get("session_id")
	if command == "" || sessionID == "" {
		common.WriteJSON(w, http.StatusOK, common.Error("Couldn't find session id and command in request data"))
		return
	}

	sess, ok := h.sessions.Get(sessionID)
	if !ok {
		log.Printf("Couldn't find session id %s in sessions", sessionID)
		common.WriteJSON(w, http.StatusOK, common.Error("Invalid session id"))
		return
	}

	cmd := session.Command{
		ID:   sess.NextCommandID(),
		Text: command,
	}

	log.Printf("Relaying command %s for session %s", cmd.ID, sess.ID)
	resp, err := h.core.Command(r.Context(), sess, cmd)
	if err != nil {
		log.Printf("Core failed to process command %s: %v", cmd.ID, err)
		common.WriteJSON(w, http.StatusOK, common.Error("Command processing failed"))
		return
	}
	sess.Push(cmd)

	common.WriteJSON(w, http.StatusOK, resp)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
