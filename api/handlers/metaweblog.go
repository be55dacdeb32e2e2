package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"typograph/dto"
	"typograph/logger"
	"typograph/services"
	"typograph/xmlrpc"
)

// Fault codes surfaced to XML-RPC callers.
const (
	faultAuth       = 401
	faultNotFound   = 404
	faultValidation = 400
	faultInternal   = 500
	faultNoMethod   = -32601
)

// procedure executes one catalog entry against already-decoded positional
// parameters. Authentication has already succeeded when it runs.
type procedure func(ctx context.Context, call *xmlrpc.MethodCall) (xmlrpc.Value, error)

// catalogEntry fixes where the credentials sit in an operation's parameter
// list; deletePost leads with the legacy appkey, shifting them by one.
type catalogEntry struct {
	userArg, passArg int
	run              procedure
}

// MetaWeblogHandler dispatches inbound XML-RPC calls to the fixed
// procedure catalog.
type MetaWeblogHandler struct {
	auth    services.Authenticator
	posts   *services.MetaWeblogService
	media   *services.MediaService
	catalog map[string]catalogEntry
}

func NewMetaWeblogHandler(auth services.Authenticator, posts *services.MetaWeblogService, media *services.MediaService) *MetaWeblogHandler {
	h := &MetaWeblogHandler{auth: auth, posts: posts, media: media}
	h.catalog = map[string]catalogEntry{
		"getCategories":  {userArg: 1, passArg: 2, run: h.getCategories},
		"getPost":        {userArg: 1, passArg: 2, run: h.getPost},
		"getRecentPosts": {userArg: 1, passArg: 2, run: h.getRecentPosts},
		"newPost":        {userArg: 1, passArg: 2, run: h.newPost},
		"editPost":       {userArg: 1, passArg: 2, run: h.editPost},
		"deletePost":     {userArg: 2, passArg: 3, run: h.deletePost},
		"newMediaObject": {userArg: 1, passArg: 2, run: h.newMediaObject},
	}
	return h
}

// Endpoint serves the XML-RPC entry point.
func (h *MetaWeblogHandler) Endpoint() gin.HandlerFunc {
	return func(c *gin.Context) {
		call, err := xmlrpc.ParseMethodCall(c.Request.Body)
		if err != nil {
			writeFault(c, &xmlrpc.Fault{Code: faultValidation, String: "malformed XML-RPC request"})
			return
		}

		entry, ok := h.catalog[normalizeMethod(call.Name)]
		if !ok {
			writeFault(c, &xmlrpc.Fault{Code: faultNoMethod, String: "method " + call.Name + " not found"})
			return
		}

		ctx := c.Request.Context()

		// Authentication runs before any handler logic, uniformly for all
		// seven operations.
		username := call.Param(entry.userArg).AsString()
		password := call.Param(entry.passArg).AsString()
		if !h.auth.Authenticate(ctx, username, password) {
			writeFault(c, &xmlrpc.Fault{Code: faultAuth, String: "authentication failed"})
			return
		}

		result, err := entry.run(ctx, call)
		if err != nil {
			writeFault(c, toFault(err))
			return
		}

		c.Header("Content-Type", "text/xml; charset=utf-8")
		c.Status(http.StatusOK)
		if err := xmlrpc.WriteResponse(c.Writer, result); err != nil {
			logger.Log.Errorf("writing xmlrpc response method=%s err=%v", call.Name, err)
		}
	}
}

// getCategories(blogId, username, password) -> [string]
func (h *MetaWeblogHandler) getCategories(ctx context.Context, call *xmlrpc.MethodCall) (xmlrpc.Value, error) {
	names, err := h.posts.GetCategories(ctx)
	if err != nil {
		return xmlrpc.Value{}, err
	}
	return xmlrpc.NewStringArray(names), nil
}

// getPost(postId, username, password) -> PostDTO
func (h *MetaWeblogHandler) getPost(ctx context.Context, call *xmlrpc.MethodCall) (xmlrpc.Value, error) {
	d, err := h.posts.GetPost(ctx, call.Param(0).AsString())
	if err != nil {
		return xmlrpc.Value{}, err
	}
	return d.ToValue(), nil
}

// getRecentPosts(blogId, username, password, count) -> [PostDTO]
func (h *MetaWeblogHandler) getRecentPosts(ctx context.Context, call *xmlrpc.MethodCall) (xmlrpc.Value, error) {
	posts, err := h.posts.GetRecentPosts(ctx, call.Param(3).AsInt())
	if err != nil {
		return xmlrpc.Value{}, err
	}
	items := make([]xmlrpc.Value, 0, len(posts))
	for _, d := range posts {
		items = append(items, d.ToValue())
	}
	return xmlrpc.NewArray(items), nil
}

// newPost(blogId, username, password, PostDTO, publish) -> string post id
func (h *MetaWeblogHandler) newPost(ctx context.Context, call *xmlrpc.MethodCall) (xmlrpc.Value, error) {
	d := dto.PostDTOFromValue(call.Param(3))
	id, err := h.posts.NewPost(ctx, call.Param(1).AsString(), d, call.Param(4).AsBool())
	if err != nil {
		return xmlrpc.Value{}, err
	}
	return xmlrpc.NewString(id), nil
}

// editPost(postId, username, password, PostDTO, publish) -> bool
func (h *MetaWeblogHandler) editPost(ctx context.Context, call *xmlrpc.MethodCall) (xmlrpc.Value, error) {
	d := dto.PostDTOFromValue(call.Param(3))
	if err := h.posts.EditPost(ctx, call.Param(0).AsString(), call.Param(1).AsString(), d, call.Param(4).AsBool()); err != nil {
		return xmlrpc.Value{}, err
	}
	return xmlrpc.NewBool(true), nil
}

// deletePost(appKey, postId, username, password, publish) -> bool
func (h *MetaWeblogHandler) deletePost(ctx context.Context, call *xmlrpc.MethodCall) (xmlrpc.Value, error) {
	if err := h.posts.DeletePost(ctx, call.Param(1).AsString()); err != nil {
		return xmlrpc.Value{}, err
	}
	return xmlrpc.NewBool(true), nil
}

// newMediaObject(blogId, username, password, MediaDTO) -> UrlDTO
func (h *MetaWeblogHandler) newMediaObject(ctx context.Context, call *xmlrpc.MethodCall) (xmlrpc.Value, error) {
	d := dto.MediaDTOFromValue(call.Param(3))
	u, err := h.media.Store(ctx, d.Name, d.Bits, d.Type)
	if err != nil {
		return xmlrpc.Value{}, err
	}
	return u.ToValue(), nil
}

// normalizeMethod strips the API prefix blog clients send; the catalog is
// keyed on the bare operation name. deletePost in particular arrives as
// blogger.deletePost from most clients.
func normalizeMethod(name string) string {
	for _, prefix := range []string{"metaWeblog.", "mt.", "blogger."} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

func toFault(err error) *xmlrpc.Fault {
	var f *xmlrpc.Fault
	if errors.As(err, &f) {
		return f
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		return &xmlrpc.Fault{Code: faultNotFound, String: err.Error()}
	case errors.Is(err, services.ErrValidation):
		return &xmlrpc.Fault{Code: faultValidation, String: err.Error()}
	default:
		logger.Log.Errorf("xmlrpc handler error: %v", err)
		return &xmlrpc.Fault{Code: faultInternal, String: "internal error"}
	}
}

func writeFault(c *gin.Context, f *xmlrpc.Fault) {
	// XML-RPC faults ride on HTTP 200; the protocol carries its own error
	// channel.
	c.Header("Content-Type", "text/xml; charset=utf-8")
	c.Status(http.StatusOK)
	if err := xmlrpc.WriteFault(c.Writer, f); err != nil {
		logger.Log.Errorf("writing xmlrpc fault err=%v", err)
	}
}
