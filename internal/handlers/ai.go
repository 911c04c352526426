package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/quantum-box/urushiri/internal/autofill"
	"github.com/quantum-box/urushiri/internal/dify"
)

const imageGenerationMode = "image_generation"

// cleanupInstruction asks the model to strip text from a cover image and keep
// only the background texture.
const cleanupInstruction = "文字を全て消してテクスチャだけ残す。文字のバックグラウンドになっているようなところもけして幾何学模様やテーマなどのところを一様に出力。"

// AIHandler proxies browser requests to the hosted chat API so the API key
// never leaves the server. These endpoints forward raw upstream JSON, which
// fights a typed operation model, so they stay plain chi handlers.
type AIHandler struct {
	client *dify.Client
}

func NewAIHandler(client *dify.Client) *AIHandler {
	return &AIHandler{client: client}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func normalizeFiles(raw any) []dify.FilePayload {
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}

	files := make([]dify.FilePayload, 0, len(entries))
	for _, entry := range entries {
		record, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		fileType, _ := record["type"].(string)
		transferMethod, _ := record["transfer_method"].(string)
		if fileType == "" || transferMethod == "" {
			continue
		}
		files = append(files, dify.FilePayload(record))
	}
	return files
}

func timeoutFromMillis(raw any) time.Duration {
	millis, ok := raw.(float64)
	if !ok || millis <= 0 {
		return 0
	}
	return time.Duration(millis) * time.Millisecond
}

// HandleChat relays a chat request and passes the raw upstream JSON through.
func (h *AIHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	query, _ := body["query"].(string)
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "'query' must be a non-empty string")
		return
	}

	inputs, _ := body["inputs"].(map[string]any)
	conversationID, _ := body["conversationId"].(string)
	user, _ := body["user"].(string)

	response, err := h.client.SendChatMessage(r.Context(), dify.ChatMessageParams{
		Query:          query,
		Inputs:         inputs,
		ConversationID: conversationID,
		User:           user,
		Files:          normalizeFiles(body["files"]),
		Timeout:        timeoutFromMillis(body["timeoutMs"]),
	})
	if err != nil {
		log.Printf("Failed to complete chat request: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func inferFileType(mimeType string) string {
	if strings.HasPrefix(mimeType, "image/") {
		return "image"
	}
	return "document"
}

// HandleFileUpload forwards a multipart file to the upstream upload endpoint
// and returns a file reference usable in a later chat call.
func (h *AIHandler) HandleFileUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload payload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	fileName := header.Filename
	if fileName == "" {
		fileName = "upload.bin"
	}

	uploadFileID, err := h.client.UploadBase64File(r.Context(), base64.StdEncoding.EncodeToString(data), fileName, mimeType)
	if err != nil {
		log.Printf("Failed to upload file: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"file": map[string]any{
			"type":            inferFileType(mimeType),
			"transfer_method": "local_file",
			"upload_file_id":  uploadFileID,
		},
	})
}

type imagePayload struct {
	Base64    string
	MimeType  string
	FileName  string
	RemoteURL string
}

var mimeTypesByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

func guessMimeType(fileName string) string {
	if mimeType, ok := mimeTypesByExtension[strings.ToLower(path.Ext(fileName))]; ok {
		return mimeType
	}
	return "image/png"
}

func fileNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "image.png"
	}
	candidate := path.Base(parsed.Path)
	if candidate == "" || candidate == "." || candidate == "/" {
		return "image.png"
	}
	if decoded, err := url.PathUnescape(candidate); err == nil {
		return decoded
	}
	return candidate
}

func (h *AIHandler) normalizeImageRequest(r *http.Request) (*imagePayload, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, err
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, nil
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}

		fileName := strings.TrimSpace(r.FormValue("fileName"))
		if fileName == "" {
			fileName = header.Filename
		}
		if fileName == "" {
			fileName = "image.png"
		}
		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = guessMimeType(fileName)
		}

		return &imagePayload{
			Base64:   base64.StdEncoding.EncodeToString(data),
			MimeType: mimeType,
			FileName: fileName,
		}, nil
	}

	var body struct {
		ImageBase64 string `json:"imageBase64"`
		FileName    string `json:"fileName"`
		ImageURL    string `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}

	remoteURL := dify.SanitizeURL(body.ImageURL)
	hasBase64 := strings.TrimSpace(body.ImageBase64) != ""
	if !hasBase64 && remoteURL == "" {
		return nil, nil
	}

	payload := &imagePayload{RemoteURL: remoteURL}

	if hasBase64 {
		payload.Base64 = body.ImageBase64
		if parsed := dify.ParseDataURL(body.ImageBase64); parsed != nil {
			payload.Base64 = parsed.Base64
			payload.MimeType = parsed.MimeType
		}
	}

	payload.FileName = strings.TrimSpace(body.FileName)
	if payload.FileName == "" {
		payload.FileName = fileNameFromURL(remoteURL)
	}
	if payload.MimeType == "" {
		payload.MimeType = guessMimeType(payload.FileName)
	}

	return payload, nil
}

// HandleImageGeneration sends a cover image through the text-removal prompt.
// Once the input image is normalized, every later failure degrades to
// returning the original image untouched.
func (h *AIHandler) HandleImageGeneration(w http.ResponseWriter, r *http.Request) {
	payload, err := h.normalizeImageRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "画像データの読み込みに失敗しました")
		return
	}
	if payload == nil {
		writeError(w, http.StatusBadRequest, "画像データが取得できませんでした")
		return
	}

	if payload.RemoteURL != "" && payload.Base64 == "" {
		base64Data, mimeType, err := h.client.DownloadImage(r.Context(), payload.RemoteURL)
		if err != nil {
			log.Printf("Failed to fetch source image from remote URL: %v", err)
		} else {
			payload.Base64 = base64Data
			if mimeType != "" {
				payload.MimeType = mimeType
			}
			payload.FileName = fileNameFromURL(payload.RemoteURL)
		}
	}

	original := map[string]any{
		"imageBase64": nullableString(payload.Base64),
		"imageUrl":    nullableString(payload.RemoteURL),
		"mimeType":    nullableString(payload.MimeType),
		"raw":         nil,
	}

	var files []dify.FilePayload
	if payload.RemoteURL != "" {
		files = append(files, dify.FilePayload{
			"type":            "image",
			"transfer_method": "remote_url",
			"url":             payload.RemoteURL,
		})
	} else {
		uploadFileID, err := h.client.UploadBase64File(r.Context(), payload.Base64, payload.FileName, payload.MimeType)
		if err != nil {
			log.Printf("Failed to upload source image: %v", err)
			writeJSON(w, http.StatusOK, original)
			return
		}
		files = append(files, dify.FilePayload{
			"type":            "image",
			"transfer_method": "local_file",
			"upload_file_id":  uploadFileID,
		})
	}

	inputs := map[string]any{
		"mode":              imageGenerationMode,
		"source_image_mime": payload.MimeType,
		"source_file_name":  payload.FileName,
	}
	if payload.Base64 != "" {
		inputs["source_image_base64"] = payload.Base64
	}
	if payload.RemoteURL != "" {
		inputs["source_image_url"] = payload.RemoteURL
	}

	response, err := h.client.SendChatMessage(r.Context(), dify.ChatMessageParams{
		Query:  cleanupInstruction,
		Inputs: inputs,
		Files:  files,
	})
	if err != nil {
		log.Printf("Failed to generate image: %v", err)
		writeJSON(w, http.StatusOK, original)
		return
	}

	extracted := dify.ExtractImage(response)
	if extracted == nil {
		original["raw"] = response
		writeJSON(w, http.StatusOK, original)
		return
	}

	imageBase64 := extracted.Base64
	imageURL := dify.SanitizeURL(extracted.URL)
	mimeType := payload.MimeType

	// Callers prefer inline data, so URL results get downloaded server-side.
	if imageBase64 == "" && imageURL != "" {
		downloaded, downloadedMime, err := h.client.DownloadImage(r.Context(), imageURL)
		if err != nil {
			log.Printf("Failed to fetch generated image from URL: %v", err)
		} else {
			imageBase64 = downloaded
			if downloadedMime != "" {
				mimeType = downloadedMime
			}
			imageURL = ""
		}
	}

	result := map[string]any{
		"imageBase64": nullableString(imageBase64),
		"imageUrl":    nullableString(imageURL),
		"raw":         response,
	}
	if imageBase64 != "" {
		result["mimeType"] = mimeType
	} else {
		result["mimeType"] = nil
	}
	writeJSON(w, http.StatusOK, result)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// autofillPrompt is the extraction instruction used when the caller supplies
// raw text instead of a full prompt.
const autofillPrompt = `次のテキストを解析し、イベントフォームに必要な情報をできるだけ詳しく抽出してください。description には日付・開始時刻・場所・参加条件・連絡先など重要な要素をすべて日本語でまとめ、他フィールドと重複しても構いません。結果は以下のキーを持つ JSON オブジェクトで返してください: {
  "title": string,
  "description": string,
  "date": "YYYY-MM-DD",
  "time": "HH:MM",
  "location": string,
  "category": string,
  "maxAttendees": number,
  "isPublic": boolean,
  "imageUrl": string
}.
入力テキスト:

`

// HandleAutofill runs an extraction chat and returns typed form fields.
func (h *AIHandler) HandleAutofill(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	query, _ := body["query"].(string)
	if strings.TrimSpace(query) == "" {
		text, _ := body["text"].(string)
		if strings.TrimSpace(text) == "" {
			writeError(w, http.StatusBadRequest, "'query' or 'text' must be a non-empty string")
			return
		}
		query = autofillPrompt + text
	}

	inputs, _ := body["inputs"].(map[string]any)
	conversationID, _ := body["conversationId"].(string)
	user, _ := body["user"].(string)

	response, err := h.client.SendChatMessage(r.Context(), dify.ChatMessageParams{
		Query:          query,
		Inputs:         inputs,
		ConversationID: conversationID,
		User:           user,
		Files:          normalizeFiles(body["files"]),
		Timeout:        timeoutFromMillis(body["timeoutMs"]),
	})
	if err != nil {
		log.Printf("Failed to complete autofill request: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	extracted := autofill.Extract(response)
	applied := !extracted.Empty()

	// Extracted values overlay whatever the form already holds.
	fields := autofill.ParseFields(body["current"])
	if fields == nil {
		fields = &autofill.FieldMapping{}
	}
	fields.Merge(extracted)
	newConversationID, _ := response["conversation_id"].(string)

	writeJSON(w, http.StatusOK, map[string]any{
		"fields":         fields,
		"conversationId": newConversationID,
		"applied":        applied,
	})
}
