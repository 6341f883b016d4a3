package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lms-platform/config"
	"lms-platform/internal/apperr"
	"lms-platform/internal/util"

	"github.com/go-chi/chi/v5"
)

// LocalRoutePrefix : путь, под которым media-сервис принимает подписанные запросы
const LocalRoutePrefix = "/media/local/"

const maxLocalUploadBytes = 512 << 20

var (
	errBadSignature = errors.New("invalid signature")
	errURLExpired   = errors.New("signed url expired")
)

// LocalProvider : хранение на диске для разработки. Ссылки подписываются
// HMAC-SHA256 от метода, ключа и срока действия.
type LocalProvider struct {
	dir     string
	baseURL string
	key     []byte
	now     func() time.Time
}

func NewLocalProvider(cfg *config.StorageConfig) (*LocalProvider, error) {
	if err := os.MkdirAll(cfg.LocalDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalProvider{
		dir:     cfg.LocalDir,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		key:     []byte(cfg.SigningKey),
		now:     time.Now,
	}, nil
}

func (p *LocalProvider) GeneratePresignedPutURL(_ context.Context, key, _ string, expire time.Duration) (string, error) {
	return p.signedURL(http.MethodPut, key, expire), nil
}

func (p *LocalProvider) GeneratePresignedGetURL(_ context.Context, key string, expire time.Duration) (string, error) {
	return p.signedURL(http.MethodGet, key, expire), nil
}

func (p *LocalProvider) DeleteObject(_ context.Context, key string) error {
	target, err := p.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return util.LogError("[LocalProvider] не удалось удалить объект", err)
	}
	return nil
}

func (p *LocalProvider) signedURL(method, key string, expire time.Duration) string {
	expires := strconv.FormatInt(p.now().Add(expire).Unix(), 10)
	query := url.Values{}
	query.Set("expires", expires)
	query.Set("signature", p.sign(method, key, expires))
	return p.baseURL + LocalRoutePrefix + key + "?" + query.Encode()
}

func (p *LocalProvider) sign(method, key, expires string) string {
	mac := hmac.New(sha256.New, p.key)
	mac.Write([]byte(method + "\n" + key + "\n" + expires))
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *LocalProvider) verify(method, key string, query url.Values) error {
	expires := query.Get("expires")
	unix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return errBadSignature
	}
	expected := p.sign(method, key, expires)
	if !hmac.Equal([]byte(expected), []byte(query.Get("signature"))) {
		return errBadSignature
	}
	if !p.now().Before(time.Unix(unix, 0)) {
		return errURLExpired
	}
	return nil
}

// objectPath : ключ не может выйти за пределы каталога хранилища
func (p *LocalProvider) objectPath(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || clean != "/"+key {
		return "", apperr.Validation("invalid object key", map[string]string{"key": "must be a clean relative path"})
	}
	return filepath.Join(p.dir, filepath.FromSlash(clean)), nil
}

// Routes : PUT загружает объект, GET отдаёт его. Доступ только по подписанной ссылке.
func (p *LocalProvider) Routes(r chi.Router) {
	r.Put(LocalRoutePrefix+"*", p.handleUpload)
	r.Get(LocalRoutePrefix+"*", p.handleDownload)
}

func (p *LocalProvider) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "*")
	target, err := p.objectPath(key)
	if err != nil {
		util.HandleError(w, r, err)
		return "", false
	}
	if err := p.verify(r.Method, key, r.URL.Query()); err != nil {
		util.HandleError(w, r, apperr.Authorization(err.Error()))
		return "", false
	}
	return target, true
}

func (p *LocalProvider) handleUpload(w http.ResponseWriter, r *http.Request) {
	target, ok := p.authorize(w, r)
	if !ok {
		return
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		util.HandleError(w, r, apperr.Internal("create object dir", err))
		return
	}
	file, err := os.Create(target)
	if err != nil {
		util.HandleError(w, r, apperr.Internal("create object", err))
		return
	}
	defer file.Close()

	if _, err := io.Copy(file, http.MaxBytesReader(w, r.Body, maxLocalUploadBytes)); err != nil {
		_ = os.Remove(target)
		util.HandleError(w, r, apperr.Validation("upload failed", map[string]string{"body": err.Error()}))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (p *LocalProvider) handleDownload(w http.ResponseWriter, r *http.Request) {
	target, ok := p.authorize(w, r)
	if !ok {
		return
	}
	if _, err := os.Stat(target); err != nil {
		util.HandleError(w, r, apperr.NotFound("object not found", err))
		return
	}
	http.ServeFile(w, r, target)
}
