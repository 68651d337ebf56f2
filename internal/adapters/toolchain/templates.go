package toolchain

import (
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"join": strings.Join,
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
	"ref": func(name string) string {
		return "${" + name + "}"
	},
}

var toolchainTemplate = template.Must(template.New("toolchain").Funcs(funcs).Parse(`# Generated by recipe for {{.Ref}}. Do not edit.
include_guard()
{{if .BuildType}}
set(CMAKE_BUILD_TYPE "{{.BuildType}}" CACHE STRING "Build type" FORCE)
{{end}}
set(CMAKE_CXX_STANDARD {{.CppStd}})
set(CMAKE_CXX_STANDARD_REQUIRED ON)
set(CMAKE_CXX_EXTENSIONS {{onOff .Extensions}})

set(BUILD_SHARED_LIBS {{onOff .Shared}} CACHE BOOL "Build shared libraries" FORCE)
{{if .HasPIC}}set(CMAKE_POSITION_INDEPENDENT_CODE {{onOff .PIC}} CACHE BOOL "Position independent code" FORCE)
{{end}}{{if .MSVCRuntime}}set(CMAKE_MSVC_RUNTIME_LIBRARY "{{.MSVCRuntime}}")
{{end}}
list(PREPEND CMAKE_PREFIX_PATH "${CMAKE_CURRENT_LIST_DIR}")
list(PREPEND CMAKE_MODULE_PATH "${CMAKE_CURRENT_LIST_DIR}")
{{range .Prefixes}}list(APPEND CMAKE_PREFIX_PATH "{{.}}")
{{end}}
include("${CMAKE_CURRENT_LIST_DIR}/recipe_deps.cmake" OPTIONAL)
`))

var depsTemplate = template.Must(template.New("deps").Funcs(funcs).Parse(`# Generated by recipe for {{.Ref}}. Do not edit.
include_guard()

set(RECIPE_REQUIRES{{range .Deps}} "{{.Ref}}"{{end}})
{{range .Deps}}set({{.Name}}_DIR "${CMAKE_CURRENT_LIST_DIR}")
{{end}}`))

var configTemplate = template.Must(template.New("config").Funcs(funcs).Parse(`# Generated by recipe for {{.Ref}}. Do not edit.
set({{.Name}}_VERSION "{{.Version}}")
set({{.Name}}_PACKAGE_FOLDER "{{.Prefix}}")

if(NOT TARGET {{.Target}})
  add_library({{.Target}} INTERFACE IMPORTED)
  set_target_properties({{.Target}} PROPERTIES
    INTERFACE_INCLUDE_DIRECTORIES "{{join .IncludeDirs ";"}}")
{{range .Libs}}
  find_library({{.Var}} NAMES {{.Name}} PATHS{{range $.LibDirs}} "{{.}}"{{end}} NO_DEFAULT_PATH)
  if({{.Var}})
    target_link_libraries({{$.Target}} INTERFACE "{{ref .Var}}")
  endif()
{{end}}endif()

set({{.Name}}_FOUND TRUE)
`))
