package refiner

// defaultJargon maps lowercase technical terms to their canonical display
// casing. Matching is whole-word and case-insensitive.
var defaultJargon = map[string]string{
	// Languages.
	"python":     "Python",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"java":       "Java",
	"golang":     "Go",
	"rust":       "Rust",
	"kotlin":     "Kotlin",
	"swift":      "Swift",

	// AI/ML.
	"rag":          "RAG",
	"llm":          "LLM",
	"gpt":          "GPT",
	"openai":       "OpenAI",
	"langchain":    "LangChain",
	"langgraph":    "LangGraph",
	"hugging face": "Hugging Face",
	"pytorch":      "PyTorch",
	"tensorflow":   "TensorFlow",
	"whisper":      "Whisper",

	// Databases.
	"sql":           "SQL",
	"nosql":         "NoSQL",
	"postgresql":    "PostgreSQL",
	"mysql":         "MySQL",
	"mongodb":       "MongoDB",
	"redis":         "Redis",
	"elasticsearch": "Elasticsearch",
	"sqlite":        "SQLite",

	// Web and APIs.
	"api":       "API",
	"rest":      "REST",
	"restful":   "RESTful",
	"graphql":   "GraphQL",
	"json":      "JSON",
	"xml":       "XML",
	"yaml":      "YAML",
	"http":      "HTTP",
	"https":     "HTTPS",
	"websocket": "WebSocket",
	"grpc":      "gRPC",

	// DevOps and cloud.
	"aws":        "AWS",
	"azure":      "Azure",
	"gcp":        "GCP",
	"docker":     "Docker",
	"kubernetes": "Kubernetes",
	"k8s":        "K8s",
	"ci/cd":      "CI/CD",
	"cicd":       "CI/CD",
	"devops":     "DevOps",
	"nginx":      "Nginx",
	"apache":     "Apache",

	// Frameworks.
	"react":   "React",
	"vue":     "Vue",
	"angular": "Angular",
	"django":  "Django",
	"flask":   "Flask",
	"fastapi": "FastAPI",
	"nextjs":  "Next.js",
	"next.js": "Next.js",

	// Professional shorthand.
	"sde": "SDE",
	"ui":  "UI",
	"ux":  "UX",
	"seo": "SEO",
	"mvp": "MVP",
	"poc": "POC",
	"sdk": "SDK",
	"ide": "IDE",
	"cli": "CLI",
	"gui": "GUI",

	// Version control.
	"git":       "Git",
	"github":    "GitHub",
	"gitlab":    "GitLab",
	"bitbucket": "Bitbucket",

	// Protocols and security.
	"oauth": "OAuth",
	"jwt":   "JWT",
	"ssl":   "SSL",
	"tls":   "TLS",
	"cdn":   "CDN",
	"dns":   "DNS",
	"ssh":   "SSH",
	"ftp":   "FTP",
	"vpn":   "VPN",
}
