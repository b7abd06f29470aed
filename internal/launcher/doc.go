// Package launcher starts the igv-webapp inside a Singularity/Apptainer
// container serving the generated config over HTTP.
//
// The container layout is described by a Profile. The stock profile runs
//
//	singularity exec \
//	  --bind custom:/igv-webapp/dist/custom \
//	  --bind <data>:/igv-webapp/dist/data \
//	  --bind <config>:/igv-webapp/dist/igvwebConfig.js \
//	  hpcigv.sif npx http-server --port <port> /igv-webapp/dist
//
// A profile file written in HCL may override any part of it:
//
//	runtime     = "apptainer"
//	image       = "/shared/images/hpcigv.sif"
//	assets_dir  = "custom"
//	webapp_root = "/igv-webapp/dist"
//	server      = ["npx", "http-server", "-a", "127.0.0.1", "--port", port, serve_dir]
//
// The server expression may reference port, serve_dir, data_path and
// config_path.
package launcher
