package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"tavigeom/internal/models"
	"tavigeom/pkg/config"
	"tavigeom/pkg/engine"
	"tavigeom/pkg/scurve"
	"tavigeom/pkg/stl"
)

func main() {
	// Parse command line arguments
	studyPath := flag.String("study", "", "YAML study file with root and cusp landmarks")
	configPath := flag.String("config", "tavigeom.yaml", "Engine configuration file (optional)")
	plotPath := flag.String("plot", "", "Write the S-curve as an HTML chart to this path")
	meshPath := flag.String("mesh", "", "Write the centerline as a binary STL tube mesh to this path")
	meshRadius := flag.Float64("mesh-radius", 2, "Tube radius in mm for the STL export")
	writeConfig := flag.Bool("write-default-config", false, "Write a default config file and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	if *studyPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	study, err := models.LoadStudy(*studyPath)
	if err != nil {
		log.Fatalf("Failed to load study: %v", err)
	}

	roots, err := study.ToRootPoints()
	if err != nil {
		log.Fatalf("Invalid root landmarks: %v", err)
	}
	cusps, err := study.ToAnnulusPoints()
	if err != nil {
		log.Fatalf("Invalid cusp landmarks: %v", err)
	}

	var logger engine.Logger
	if cfg.Output.Verbose {
		logger = log.New(os.Stderr, "tavigeom: ", log.LstdFlags)
	}
	eng := engine.New(cfg, logger)

	fmt.Println("================================")
	fmt.Printf("TAVI GEOMETRY PIPELINE: case %q\n", study.Patient)
	fmt.Println("================================")

	plane, err := eng.ComputeAnnularPlane(cusps)
	if err != nil {
		log.Fatalf("Annular plane failed: %v", err)
	}
	fmt.Printf("\nAnnular plane:\n")
	fmt.Printf("  center:     (%.2f, %.2f, %.2f) mm\n", plane.Center.X, plane.Center.Y, plane.Center.Z)
	fmt.Printf("  normal:     (%.4f, %.4f, %.4f)\n", plane.Normal.X, plane.Normal.Y, plane.Normal.Z)
	fmt.Printf("  confidence: %.3f\n", plane.Confidence)
	fmt.Printf("  diameter:   %.1f mm  area: %.0f mm²  perimeter: %.1f mm\n",
		plane.Diameter(), plane.Area(), plane.Perimeter())
	if d := plane.Diameter(); d < 15 || d > 35 {
		fmt.Printf("  note: diameter outside the usual 15-35 mm range; review landmark placement\n")
	}

	if contour := study.ContourPoints(); len(contour) >= 3 {
		fitCenter, fitNormal, rms, err := eng.FitContourPlane(contour)
		if err != nil {
			log.Fatalf("Contour plane fit failed: %v", err)
		}
		tilt := math.Acos(math.Min(1, math.Abs(fitNormal.Dot(plane.Normal)))) * 180 / math.Pi
		fmt.Printf("  contour fit: rms %.2f mm, center offset %.2f mm, tilt vs 3-cusp plane %.1f°\n",
			rms, fitCenter.Sub(plane.Center).Norm(), tilt)
	}

	line, err := eng.ComputeCenterline(roots, plane)
	if err != nil {
		log.Fatalf("Centerline failed: %v", err)
	}
	fmt.Printf("\nCenterline:\n")
	fmt.Printf("  samples:            %d\n", line.SampleCount())
	fmt.Printf("  length:             %.1f mm\n", line.Length)
	fmt.Printf("  annulus at sample:  %d\n", line.AnnulusPlaneIndex)

	curve, err := eng.ComputeSCurve(cusps)
	if err != nil {
		log.Fatalf("S-curve failed: %v", err)
	}
	threeCusp, overlap, err := eng.ViewPresets(cusps)
	if err != nil {
		log.Fatalf("View presets failed: %v", err)
	}
	fmt.Printf("\nFluoroscopic views:\n")
	fmt.Printf("  three-cusp view:   %s\n", fmtAngles(threeCusp))
	fmt.Printf("  cusp-overlap view: %s\n", fmtAngles(overlap))
	idx := eng.NearestSCurvePoint(curve, threeCusp.LaoRao, threeCusp.CranCaud)
	fmt.Printf("  nearest S-curve point to three-cusp view: LAO/RAO %.0f°, CRAN/CAUD %.1f°\n",
		curve.LaoRao[idx], curve.CranCaud[idx])

	if *plotPath != "" {
		if err := writeSCurveChart(curve, study.Patient, *plotPath); err != nil {
			log.Fatalf("Failed to write S-curve chart: %v", err)
		}
		fmt.Printf("\nS-curve chart written to %s\n", *plotPath)
	}

	if *meshPath != "" {
		triangles, err := stl.CenterlineTube(line, *meshRadius, stl.DefaultRingVertices)
		if err != nil {
			log.Fatalf("Failed to mesh centerline: %v", err)
		}
		if err := stl.SaveToSTL(*meshPath, triangles); err != nil {
			log.Fatalf("Failed to write STL: %v", err)
		}
		fmt.Printf("Centerline mesh (%d triangles) written to %s\n", len(triangles), *meshPath)
	}
}

func fmtAngles(a scurve.Angles) string {
	return fmt.Sprintf("LAO/RAO %.1f°, CRAN/CAUD %.1f°", a.LaoRao, a.CranCaud)
}
