package hcl

// ExampleManifest documents every block and attribute of a manifest. It is
// printed by the schema command and must always load.
const ExampleManifest = `# vesselbatch manifest
#
# Relative paths are resolved against the directory of this file. The
# variables manifest_dir and env.NAME are available in expressions.

batch {
  # "volume" or "graph".
  dataset_type = "volume"

  # Volumes only: "none", "id" or "rgb".
  annotation_type = "id"

  # Graphs only: "csv" for vertex/edge pairs, or a single-file format
  # extension such as "graphml" (the default) or "gml".
  graph_format = "graphml"

  # Overrides the saved preference. Defaults to ~/VesselVio Results.
  results_dir = "${manifest_dir}/results"

  files {
    # Primary files: volumes, graphs or CSV vertex files. Globs are expanded
    # and sorted per pattern. A folder stands for every file under it with
    # an accepted extension.
    column1 = ["volumes/*.nii"]

    # Paired files: ID annotation volumes or CSV edge files.
    column2 = ["labels/*.nii"]

    # RGB annotations: the folder whose subfolders hold the annotation
    # slices. Replaces column2.
    # column2_folder = "rgb_labels"
  }

  # Graphs only: how the graph files are read.
  # graph {
  #   type               = "branches"  # or "centerlines"
  #   csv_delimiter      = ","         # one character, "space" or "tab"
  #   filter_cliques     = false
  #   smooth_centerlines = false
  #   attribute_keys     = { vertex_radius = "radius", edge_source = "source" }
  # }

  # Required for "id" and "rgb" annotations.
  catalog {
    path = "regions.json"

    # Keep an RGB catalog whose regions share colors.
    accept_duplicate_colors = false
  }
}

# At most one analyzer. Without one, inputs are only checked.
analyzer "command" {
  # Placeholders: {row} {primary} {associated} {results} {catalog} {mode},
  # and for graphs {graph_type} {delimiter} {filter_cliques}
  # {smooth_centerlines} {key:NAME}.
  # The command may print "status: TEXT", "regions: N" and
  # "space: REQUIRED_GB" lines.
  command = ["vesselvio-analyze", "--input", "{primary}", "--out", "{results}"]
  env     = { THREADS = "4" }

  # Annotated volumes need this multiple of the volume size free in
  # cache_dir (or the results directory).
  required_space_factor = 2
  # cache_dir           = "/tmp/vesselbatch"
}

# Optional progress dashboards.
# publish "socketio" {
#   url       = "http://localhost:3000/socket.io/"
#   namespace = "/batch"
# }
`
