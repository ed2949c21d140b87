package http

import (
	"context"
	"net/http"

	echo "github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
	"github.com/enginrect/ovs-bridge-agent/internal/ports"
	"github.com/enginrect/ovs-bridge-agent/internal/usecase"
)

type Server struct {
	e             *echo.Echo
	bridges       ports.BridgeFactory
	db            ports.SwitchDBPort
	defaultBridge string
	gatherer      prometheus.Gatherer
}

// NewServer wires the routes. db may be nil, in which case readiness only
// reflects that the process is up.
func NewServer(bridges ports.BridgeFactory, db ports.SwitchDBPort, defaultBridge string, gatherer prometheus.Gatherer) *Server {
	e := echo.New()
	e.HideBanner = true
	s := &Server{e: e, bridges: bridges, db: db, defaultBridge: defaultBridge, gatherer: gatherer}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	s.e.GET("/readyz", s.handleReady)
	if s.gatherer != nil {
		s.e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	g := s.e.Group("/bridges/:bridge")
	g.GET("", s.handleDescribe)
	g.POST("/reset", s.handleReset)
	g.GET("/ports", s.handleListPorts)
	g.DELETE("/ports/:port", s.handleDeletePort)
	g.GET("/ports/:port/stats", s.handlePortStats)
	g.GET("/vifs", s.handleListVifs)
	g.GET("/flows/count", s.handleCountFlows)
	g.POST("/flows", s.handleAddFlow)
	g.DELETE("/flows", s.handleDeleteFlows)
	g.POST("/tunnels", s.handleAddTunnel)
	g.POST("/patches", s.handleAddPatch)
}

func (s *Server) bridge(c echo.Context) ports.BridgePort {
	return s.bridges(c.Param("bridge"))
}

func (s *Server) handleReady(c echo.Context) error {
	if s.db == nil {
		return c.String(http.StatusOK, "ok")
	}
	ok, err := s.db.BridgeExists(c.Request().Context(), s.defaultBridge)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	if !ok {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "bridge " + s.defaultBridge + " not found"})
	}
	return c.String(http.StatusOK, "ok")
}

func (s *Server) handleDescribe(c echo.Context) error {
	res, err := usecase.DescribeBridge(c.Request().Context(), s.bridge(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleReset(c echo.Context) error {
	if err := s.bridge(c).ResetBridge(c.Request().Context()); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListPorts(c echo.Context) error {
	names, err := s.bridge(c).GetPortNameList(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, names)
}

func (s *Server) handleDeletePort(c echo.Context) error {
	if err := s.bridge(c).DeletePort(c.Request().Context(), c.Param("port")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePortStats(c echo.Context) error {
	stats, err := s.bridge(c).GetPortStats(c.Request().Context(), c.Param("port"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleListVifs(c echo.Context) error {
	vifs, err := s.bridge(c).GetVifPorts(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, vifs)
}

func (s *Server) handleCountFlows(c echo.Context) error {
	br := s.bridge(c)
	n, err := br.CountFlows(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"bridge": br.Name(), "flow_count": n})
}

func (s *Server) handleAddFlow(c echo.Context) error {
	var spec domain.FlowSpec
	if err := c.Bind(&spec); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	res, err := usecase.AddFlow(c.Request().Context(), s.bridge(c), spec)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleDeleteFlows(c echo.Context) error {
	var spec domain.FlowSpec
	if err := c.Bind(&spec); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	res, err := usecase.DeleteFlows(c.Request().Context(), s.bridge(c), spec)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type tunnelReq struct {
	PortName string `json:"port_name"`
	RemoteIP string `json:"remote_ip"`
}

func (s *Server) handleAddTunnel(c echo.Context) error {
	var req tunnelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.PortName == "" || req.RemoteIP == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "port_name and remote_ip are required"})
	}
	res, err := usecase.SetupTunnel(c.Request().Context(), s.bridge(c), req.PortName, req.RemoteIP)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type patchReq struct {
	LocalPort    string `json:"local_port"`
	RemoteBridge string `json:"remote_bridge"`
	RemotePort   string `json:"remote_port"`
}

func (s *Server) handleAddPatch(c echo.Context) error {
	var req patchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.LocalPort == "" || req.RemoteBridge == "" || req.RemotePort == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "local_port, remote_bridge and remote_port are required"})
	}
	res, err := usecase.PatchBridges(c.Request().Context(), s.bridge(c), s.bridges(req.RemoteBridge), req.LocalPort, req.RemotePort)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func errorJSON(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case domain.IsConfigurationError(err):
		code = http.StatusBadRequest
	case domain.IsExternalToolError(err):
		code = http.StatusBadGateway
	}
	klog.V(2).Infof("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(code, map[string]string{"error": err.Error()})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) Start(addr string) error {
	klog.Infof("listening on %s", addr)
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
