package launcher

import (
	"fmt"
	"io"
	"path"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

const (
	DefaultRuntime    = "singularity"
	DefaultImage      = "hpcigv.sif"
	DefaultAssetsDir  = "custom"
	DefaultWebappRoot = "/igv-webapp/dist"

	defaultServerSrc = `["npx", "http-server", "--port", port, serve_dir]`
)

// supportedRuntimes share the `exec --bind src:dst image cmd...` syntax.
var supportedRuntimes = map[string]bool{
	"singularity": true,
	"apptainer":   true,
}

// Profile describes the container that serves the web app.
type Profile struct {
	Runtime    string
	Image      string
	AssetsDir  string
	WebappRoot string

	// server is evaluated per launch with the variables port, serve_dir,
	// data_path and config_path.
	server    hcl.Expression
	serverSrc []byte
}

// Target holds the per-run values substituted into the container command.
type Target struct {
	DataPath   string
	ConfigPath string
	Port       string
}

// profileFile is the HCL shape of a profile file. Every attribute is optional.
type profileFile struct {
	Runtime    string         `hcl:"runtime,optional"`
	Image      string         `hcl:"image,optional"`
	AssetsDir  string         `hcl:"assets_dir,optional"`
	WebappRoot string         `hcl:"webapp_root,optional"`
	Server     *hcl.Attribute `hcl:"server,optional"`
}

// DefaultProfile returns the stock Singularity profile.
func DefaultProfile() *Profile {
	expr, diags := hclsyntax.ParseExpression([]byte(defaultServerSrc), "default", hcl.InitialPos)
	if diags.HasErrors() {
		panic(fmt.Errorf("invalid default server expression: %w", diags))
	}
	return &Profile{
		Runtime:    DefaultRuntime,
		Image:      DefaultImage,
		AssetsDir:  DefaultAssetsDir,
		WebappRoot: DefaultWebappRoot,
		server:     expr,
		serverSrc:  []byte(defaultServerSrc),
	}
}

// LoadProfile reads an HCL profile. Attributes left out keep their defaults.
func LoadProfile(fsys afero.Fs, filename string) (*Profile, error) {
	src, err := afero.ReadFile(fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", filename, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile %s: %w", filename, diags)
	}

	var pf profileFile
	if diags := gohcl.DecodeBody(file.Body, nil, &pf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode profile %s: %w", filename, diags)
	}

	p := DefaultProfile()
	if pf.Runtime != "" {
		p.Runtime = pf.Runtime
	}
	if pf.Image != "" {
		p.Image = pf.Image
	}
	if pf.AssetsDir != "" {
		p.AssetsDir = pf.AssetsDir
	}
	if pf.WebappRoot != "" {
		p.WebappRoot = pf.WebappRoot
	}
	if pf.Server != nil {
		rng := pf.Server.Expr.Range()
		p.server = pf.Server.Expr
		p.serverSrc = src[rng.Start.Byte:rng.End.Byte]
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", filename, err)
	}
	return p, nil
}

// Validate checks the fields that cannot be checked at decode time.
func (p *Profile) Validate() error {
	if !supportedRuntimes[p.Runtime] {
		return fmt.Errorf("unsupported runtime %q: must be 'singularity' or 'apptainer'", p.Runtime)
	}
	if !path.IsAbs(p.WebappRoot) {
		return fmt.Errorf("webapp_root %q must be an absolute container path", p.WebappRoot)
	}
	return nil
}

func (p *Profile) evalContext(t Target) *hcl.EvalContext {
	return &hcl.EvalContext{Variables: map[string]cty.Value{
		"port":        cty.StringVal(t.Port),
		"serve_dir":   cty.StringVal(p.WebappRoot),
		"data_path":   cty.StringVal(t.DataPath),
		"config_path": cty.StringVal(t.ConfigPath),
	}}
}

// ServerArgs evaluates the server command for a target.
func (p *Profile) ServerArgs(t Target) ([]string, error) {
	val, diags := p.server.Value(p.evalContext(t))
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate server command: %w", diags)
	}

	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("server command must be a list of strings, got %s: %w", val.Type().FriendlyName(), err)
	}
	if converted.IsNull() || converted.LengthInt() == 0 {
		return nil, fmt.Errorf("server command must not be empty")
	}

	var args []string
	if err := gocty.FromCtyValue(converted, &args); err != nil {
		return nil, fmt.Errorf("failed to decode server command: %w", err)
	}
	return args, nil
}

// Command builds the full argv that starts the containerized server with the
// assets directory, the data directory and the generated config bound into
// the web app root.
func (p *Profile) Command(t Target) ([]string, error) {
	server, err := p.ServerArgs(t)
	if err != nil {
		return nil, err
	}

	argv := []string{
		p.Runtime, "exec",
		"--bind", bind(p.AssetsDir, path.Join(p.WebappRoot, "custom")),
		"--bind", bind(t.DataPath, path.Join(p.WebappRoot, "data")),
		"--bind", bind(t.ConfigPath, path.Join(p.WebappRoot, "igvwebConfig.js")),
		p.Image,
	}
	return append(argv, server...), nil
}

func bind(host, container string) string {
	return host + ":" + container
}

// WriteHCL writes the profile in the format accepted by LoadProfile.
func (p *Profile) WriteHCL(w io.Writer) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("runtime", cty.StringVal(p.Runtime))
	body.SetAttributeValue("image", cty.StringVal(p.Image))
	body.SetAttributeValue("assets_dir", cty.StringVal(p.AssetsDir))
	body.SetAttributeValue("webapp_root", cty.StringVal(p.WebappRoot))

	src := fmt.Appendf(nil, "server = %s\n", p.serverSrc)
	serverFile, diags := hclwrite.ParseConfig(src, "server", hcl.InitialPos)
	if diags.HasErrors() {
		return fmt.Errorf("failed to render server command: %w", diags)
	}
	body.SetAttributeRaw("server", serverFile.Body().GetAttribute("server").Expr().BuildTokens(nil))

	_, err := f.WriteTo(w)
	return err
}
