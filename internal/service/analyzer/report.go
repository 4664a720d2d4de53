package analyzer

// Report is the analysis document shape. Struct field order matters: the
// renderer lays out top-level sections in document order.
type Report struct {
	IsMonorepo      bool            `json:"isMonorepo"`
	Reason          string          `json:"reason,omitempty"`
	ProjectType     string          `json:"projectType"`
	Apps            []App           `json:"apps"`
	TechStack       TechStack       `json:"techStack"`
	Infrastructure  Infrastructure  `json:"infrastructure"`
	CodeQuality     CodeQuality     `json:"codeQuality"`
	Performance     Performance     `json:"performance"`
	Recommendations Recommendations `json:"recommendations"`
	Scores          Scores          `json:"scores"`
	Insights        []string        `json:"insights"`
	Warnings        []string        `json:"warnings"`
}

// App describes one detected application.
type App struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Framework      string   `json:"framework"`
	Language       string   `json:"language"`
	BuildTool      string   `json:"buildTool"`
	PackageManager string   `json:"packageManager"`
	HasDockerfile  bool     `json:"hasDockerfile"`
	HasTests       bool     `json:"hasTests"`
	Dependencies   []string `json:"dependencies"`
	Scripts        []string `json:"scripts"`
	Port           *int     `json:"port"`
}

// TechStack groups detected languages, frameworks, and infrastructure
// services.
type TechStack struct {
	Languages     []string   `json:"languages"`
	Frameworks    []string   `json:"frameworks"`
	Databases     []Database `json:"databases"`
	Caching       []string   `json:"caching"`
	MessageQueues []string   `json:"messageQueues"`
}

// Database is one detected data store.
type Database struct {
	Type         string   `json:"type"`
	Detected     bool     `json:"detected"`
	ConfigFiles  []string `json:"configFiles"`
	ORMFramework string   `json:"ormFramework"`
}

// Infrastructure covers containerization, delivery, and operations.
type Infrastructure struct {
	Containerization Containerization `json:"containerization"`
	CICD             CICD             `json:"cicd"`
	Deployment       Deployment       `json:"deployment"`
	Monitoring       Monitoring       `json:"monitoring"`
	Security         Security         `json:"security"`
}

type Containerization struct {
	HasDockerfile         bool     `json:"hasDockerfile"`
	HasDockerCompose      bool     `json:"hasDockerCompose"`
	DockerComposeServices []string `json:"dockerComposeServices"`
}

type CICD struct {
	HasGithubActions bool     `json:"hasGithubActions"`
	HasOtherCI       bool     `json:"hasOtherCI"`
	Workflows        []string `json:"workflows"`
}

type Deployment struct {
	HasKubernetes bool   `json:"hasKubernetes"`
	HasHelm       bool   `json:"hasHelm"`
	HasServerless bool   `json:"hasServerless"`
	Platform      string `json:"platform"`
}

type Monitoring struct {
	HasLogging bool     `json:"hasLogging"`
	HasMetrics bool     `json:"hasMetrics"`
	Tools      []string `json:"tools"`
}

type Security struct {
	HasEnvFiles         bool     `json:"hasEnvFiles"`
	HasSecrets          bool     `json:"hasSecrets"`
	HasSecurityScanning bool     `json:"hasSecurityScanning"`
	Vulnerabilities     []string `json:"vulnerabilities"`
}

// CodeQuality covers linting, testing, and style tooling.
type CodeQuality struct {
	Linting    Linting    `json:"linting"`
	Testing    Testing    `json:"testing"`
	TypeSystem TypeSystem `json:"typeSystem"`
	CodeStyle  CodeStyle  `json:"codeStyle"`
}

type Linting struct {
	HasESLint   bool     `json:"hasESLint"`
	HasPrettier bool     `json:"hasPrettier"`
	Tools       []string `json:"tools"`
}

type Testing struct {
	UnitTests        bool     `json:"unitTests"`
	IntegrationTests bool     `json:"integrationTests"`
	E2ETests         bool     `json:"e2eTests"`
	TestFrameworks   []string `json:"testFrameworks"`
	Coverage         bool     `json:"coverage"`
}

type TypeSystem struct {
	HasTypeScript bool   `json:"hasTypeScript"`
	Strict        bool   `json:"strict"`
	Coverage      string `json:"coverage"`
}

type CodeStyle struct {
	HasEditorConfig bool `json:"hasEditorConfig"`
	HasGitHooks     bool `json:"hasGitHooks"`
	HasPrettier     bool `json:"hasPrettier"`
}

// Performance covers build-time and runtime optimizations.
type Performance struct {
	BuildOptimization []string       `json:"buildOptimization"`
	Caching           []string       `json:"caching"`
	CDN               bool           `json:"cdn"`
	LazyLoading       bool           `json:"lazy_loading"`
	BundleAnalysis    BundleAnalysis `json:"bundleAnalysis"`
}

type BundleAnalysis struct {
	Tool            string   `json:"tool"`
	Recommendations []string `json:"recommendations"`
}

// Recommendations are priority-banded improvement lists.
type Recommendations struct {
	Immediate []string `json:"immediate"`
	ShortTerm []string `json:"shortTerm"`
	LongTerm  []string `json:"longTerm"`
}

// Scores are 0-100 quality metrics per category.
type Scores struct {
	Overall         int `json:"overall"`
	CodeQuality     int `json:"codeQuality"`
	Infrastructure  int `json:"infrastructure"`
	Performance     int `json:"performance"`
	Security        int `json:"security"`
	Maintainability int `json:"maintainability"`
}

func cannedReport() Report {
	return Report{
		IsMonorepo: false,
		Reason: "The project structure does not indicate multiple projects or packages managed " +
			"within a single repository. The package.json and file structure suggest a single " +
			"application focus.",
		ProjectType: "api-service",
		Apps: []App{
			{
				Name:           "main-api",
				Type:           "backend",
				Framework:      "LoopBack",
				Language:       "TypeScript",
				BuildTool:      "webpack",
				PackageManager: "npm",
				HasDockerfile:  true,
				HasTests:       true,
				Dependencies:   []string{"@loopback/core", "@loopback/rest", "amqplib"},
				Scripts:        []string{"build", "start", "test", "docker:build"},
				Port:           nil,
			},
		},
		TechStack: TechStack{
			Languages:  []string{"TypeScript", "JavaScript"},
			Frameworks: []string{"LoopBack"},
			Databases: []Database{
				{
					Type:         "PostgreSQL",
					Detected:     true,
					ConfigFiles:  []string{".env"},
					ORMFramework: "Prisma",
				},
			},
			Caching:       []string{"Redis"},
			MessageQueues: []string{"RabbitMQ"},
		},
		Infrastructure: Infrastructure{
			Containerization: Containerization{
				HasDockerfile:         true,
				HasDockerCompose:      false,
				DockerComposeServices: []string{},
			},
			CICD: CICD{
				HasGithubActions: true,
				HasOtherCI:       false,
				Workflows:        []string{"build", "test", "deploy"},
			},
			Deployment: Deployment{
				HasKubernetes: true,
				HasHelm:       false,
				HasServerless: false,
				Platform:      "AWS",
			},
			Monitoring: Monitoring{
				HasLogging: true,
				HasMetrics: false,
				Tools:      []string{"Winston"},
			},
			Security: Security{
				HasEnvFiles:         false,
				HasSecrets:          false,
				HasSecurityScanning: false,
				Vulnerabilities:     []string{"HTTP URLs detected (should use HTTPS)"},
			},
		},
		CodeQuality: CodeQuality{
			Linting: Linting{
				HasESLint:   true,
				HasPrettier: true,
				Tools:       []string{"ESLint", "Prettier"},
			},
			Testing: Testing{
				UnitTests:        true,
				IntegrationTests: true,
				E2ETests:         false,
				TestFrameworks:   []string{"Jest"},
				Coverage:         true,
			},
			TypeSystem: TypeSystem{
				HasTypeScript: true,
				Strict:        true,
				Coverage:      "high",
			},
			CodeStyle: CodeStyle{
				HasEditorConfig: false,
				HasGitHooks:     true,
				HasPrettier:     true,
			},
		},
		Performance: Performance{
			BuildOptimization: []string{"Tree shaking", "Code splitting"},
			Caching:           []string{"Redis caching strategies"},
			CDN:               false,
			LazyLoading:       false,
			BundleAnalysis: BundleAnalysis{
				Tool:            "webpack-bundle-analyzer",
				Recommendations: []string{"Consider reducing bundle size by analyzing dependencies"},
			},
		},
		Recommendations: Recommendations{
			Immediate: []string{
				"Switch all HTTP URLs to HTTPS to enhance security",
				"Implement environment files for configuration management",
			},
			ShortTerm: []string{
				"Integrate Docker Compose for local development",
				"Enhance CI/CD pipelines with additional checks",
			},
			LongTerm: []string{
				"Consider adopting Helm for Kubernetes deployments",
				"Implement comprehensive monitoring and metrics collection",
			},
		},
		Scores: Scores{
			Overall:         85,
			CodeQuality:     90,
			Infrastructure:  75,
			Performance:     80,
			Security:        70,
			Maintainability: 85,
		},
		Insights: []string{
			"The use of TypeScript with strict settings indicates a strong emphasis on type safety and code reliability.",
			"The integration of Kubernetes suggests a forward-thinking approach to scalability and deployment.",
		},
		Warnings: []string{
			"The absence of environment files could lead to configuration management issues.",
			"HTTP URLs pose a significant security risk and should be addressed immediately.",
		},
	}
}
